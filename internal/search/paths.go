// Package search flattens a schema into the field paths used by the generated
// list endpoint's free-text search, and builds the equivalent query document.
package search

import (
	"strings"

	"github.com/matthewbaird/admingen/internal/schema"
	"github.com/matthewbaird/admingen/internal/typemap"
)

// Paths holds the dot-delimited field paths of a schema, split by how a
// search term is matched against them. The two lists never share a path.
type Paths struct {
	// Text paths are matched with a case-insensitive substring regex.
	Text []string
	// Numeric paths are matched by equality when the term parses as a number.
	Numeric []string
}

// IsText reports whether leaves of kind k take part in substring search.
func IsText(k schema.Kind) bool {
	switch k {
	case schema.String, schema.Email, schema.Passcode, schema.Select, schema.DynamicSelect,
		schema.Description, schema.Time, schema.ColorPicker, schema.Phone, schema.URL,
		schema.RichText, schema.Autocomplete, schema.RadioButton, schema.MultiCheckbox,
		schema.MultiOptions:
		return true
	}
	return false
}

// Flatten collects the searchable paths of g in traversal order.
func Flatten(g *schema.Group) Paths {
	var p Paths
	schema.Walk(g, schema.Visitor{
		Leaf: func(path []string, key string, l *schema.Leaf) {
			full := join(path, key)
			switch {
			case l.Kind.IsNumeric():
				p.Numeric = append(p.Numeric, full)
			case l.Kind == schema.StringArray:
				for _, col := range typemap.Columns(l) {
					p.Text = append(p.Text, full+"."+col)
				}
			case IsText(l.Kind):
				p.Text = append(p.Text, full)
			}
		},
	})
	return p
}

// All returns text paths followed by numeric paths.
func (p Paths) All() []string {
	out := make([]string, 0, len(p.Text)+len(p.Numeric))
	out = append(out, p.Text...)
	return append(out, p.Numeric...)
}

func join(path []string, key string) string {
	if len(path) == 0 {
		return key
	}
	return strings.Join(path, ".") + "." + key
}
