package artifact

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/matthewbaird/admingen/internal/emit"
	"github.com/matthewbaird/admingen/internal/typemap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Generated TypeScript is full of {{ }} in JSX, so actions use [[ ]].
const (
	leftDelim  = "[["
	rightDelim = "]]"
)

var funcMap = template.FuncMap{
	"jsList":   typemap.JSList,
	"jsString": typemap.JSString,
	"prop":     typemap.PropertyName,
	"quoteKey": emit.QuoteKey,
	"label":    fieldLabel,
	"camel":    toCamel,
	"pascal":   toPascal,
}

// registry holds the parsed artifact templates by name ("model", "summary_count").
type registry struct {
	templates map[string]*template.Template
}

func newRegistry(fsys fs.FS) (*registry, error) {
	r := &registry{templates: map[string]*template.Template{}}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".tmpl" {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read template %s: %w", p, err)
		}
		name := strings.TrimSuffix(path.Base(p), ".tmpl")
		t, err := template.New(name).Delims(leftDelim, rightDelim).Funcs(funcMap).Option("missingkey=error").Parse(string(data))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		r.templates[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *registry) render(name string, data any) (string, error) {
	t, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
