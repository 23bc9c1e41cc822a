// Package artifact assembles the dashboard source files for one entity from
// its schema and naming convention. Each artifact kind is a template rendered
// over the same view of the schema, so field order and naming agree across
// the model, API, state and UI files.
package artifact

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/matthewbaird/admingen/internal/schema"
)

// File is one assembled artifact.
type File struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Generator renders artifacts from a template set.
type Generator struct {
	reg *registry
}

// NewGenerator parses the templates in fsys. Template names are file base
// names without the .tmpl extension.
func NewGenerator(fsys fs.FS) (*Generator, error) {
	reg, err := newRegistry(fsys)
	if err != nil {
		return nil, err
	}
	for _, k := range Kinds() {
		if _, ok := reg.templates[templateName(k)]; !ok {
			return nil, fmt.Errorf("missing template for %s", k)
		}
	}
	if _, ok := reg.templates[summaryCountTemplate]; !ok {
		return nil, fmt.Errorf("missing template %s", summaryCountTemplate)
	}
	return &Generator{reg: reg}, nil
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
	defaultErr  error
)

// Default returns the generator over the embedded templates.
func Default() *Generator {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(templateFS, "templates")
		if err != nil {
			defaultErr = err
			return
		}
		defaultGen, defaultErr = NewGenerator(sub)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultGen
}

// Assemble renders one artifact with the embedded templates.
func Assemble(kind Kind, cfg *schema.Config) (File, error) {
	return Default().Assemble(kind, cfg)
}

// AssembleAll renders every artifact kind with the embedded templates.
func AssembleAll(cfg *schema.Config) ([]File, error) {
	return Default().AssembleAll(cfg)
}

const summaryCountTemplate = "summary_count"

func templateName(k Kind) string {
	switch k {
	case StoreData:
		return "store_data"
	case RTKAPI:
		return "rtk_api"
	case SummaryRoute:
		return "summary_route"
	}
	return string(k)
}

// Assemble renders the artifact of the given kind.
func (g *Generator) Assemble(kind Kind, cfg *schema.Config) (File, error) {
	files, err := g.AssembleKinds(cfg, []Kind{kind})
	if err != nil {
		return File{}, err
	}
	return files[0], nil
}

// AssembleAll renders every artifact kind in generation order.
func (g *Generator) AssembleAll(cfg *schema.Config) ([]File, error) {
	return g.AssembleKinds(cfg, Kinds())
}

// AssembleKinds renders the listed kinds in the order given.
func (g *Generator) AssembleKinds(cfg *schema.Config, kinds []Kind) ([]File, error) {
	if cfg == nil || cfg.Schema == nil {
		return nil, schema.ErrMissingSchema
	}
	for _, k := range kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
		}
	}

	v := newView(cfg)
	files := make([]File, 0, len(kinds))
	for _, k := range kinds {
		name := templateName(k)
		if k == Summary && len(v.Accumulators) == 0 {
			name = summaryCountTemplate
		}
		content, err := g.reg.render(name, v)
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", k, err)
		}
		files = append(files, File{Kind: k, Path: k.Path(cfg.Naming), Content: content})
	}
	return files, nil
}
