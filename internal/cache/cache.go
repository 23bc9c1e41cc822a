// Package cache keeps assembled artifacts keyed by the request that produced
// them, so repeated generations of the same config skip rendering.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/matthewbaird/admingen/internal/artifact"
)

// Cache stores artifact sets. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]artifact.File, bool, error)
	Set(ctx context.Context, key string, files []artifact.File) error
}

// Key identifies a generation request by its raw config and requested kinds.
func Key(config []byte, kinds []artifact.Kind) string {
	h := sha256.New()
	h.Write(config)
	h.Write([]byte{0})
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	h.Write([]byte(strings.Join(parts, ",")))
	return hex.EncodeToString(h.Sum(nil))
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]artifact.File, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []artifact.File) error        { return nil }
