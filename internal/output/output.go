// Package output writes assembled artifacts below a project root.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/matthewbaird/admingen/internal/artifact"
)

// ErrUnsafePath is returned for an artifact path that would land outside Root.
var ErrUnsafePath = errors.New("artifact path escapes output root")

// Stats summarizes one Write.
type Stats struct {
	Files int
	Bytes int64
}

func (s Stats) String() string {
	noun := "files"
	if s.Files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s, %s", s.Files, noun, humanize.Bytes(uint64(s.Bytes)))
}

// Writer writes artifacts to disk. With DryRun set it only validates paths
// and counts what would have been written.
type Writer struct {
	Root   string
	DryRun bool
	// OnWrite, when set, is called after each file is written.
	OnWrite func(path string, size int)
}

// Write writes each file verbatim, creating directories as needed. The first
// failure aborts the remaining files.
func (w Writer) Write(files []artifact.File) (Stats, error) {
	var st Stats
	for _, f := range files {
		rel := filepath.FromSlash(f.Path)
		if !filepath.IsLocal(rel) {
			return st, fmt.Errorf("%w: %s", ErrUnsafePath, f.Path)
		}
		full := filepath.Join(w.Root, rel)

		if !w.DryRun {
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return st, fmt.Errorf("creating directory for %s: %w", f.Path, err)
			}
			if err := os.WriteFile(full, []byte(f.Content), 0o644); err != nil {
				return st, fmt.Errorf("writing %s: %w", f.Path, err)
			}
		}
		st.Files++
		st.Bytes += int64(len(f.Content))
		if w.OnWrite != nil {
			w.OnWrite(full, len(f.Content))
		}
	}
	return st, nil
}

// Size totals the content length of files.
func Size(files []artifact.File) int64 {
	var n int64
	for _, f := range files {
		n += int64(len(f.Content))
	}
	return n
}
