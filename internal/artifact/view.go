package artifact

import (
	"fmt"
	"strings"

	"github.com/matthewbaird/admingen/internal/emit"
	"github.com/matthewbaird/admingen/internal/schema"
	"github.com/matthewbaird/admingen/internal/search"
	"github.com/matthewbaird/admingen/internal/typemap"
)

// Accumulator is one "total<Field>" sum in the summary pipeline.
type Accumulator struct {
	Name  string // totalUnitPrice
	Path  string // dot path of the numeric leaf
	Label string
}

// Column is one top-level leaf shown in the list table.
type Column struct {
	Key      string
	Label    string
	Kind     schema.Kind
	Accessor string // row["key"]
	Cell     string // cell renderer, empty for plain values
}

// view is the data every artifact template renders from.
type view struct {
	Naming       schema.NamingConvention
	UID          string
	TemplateName string
	APIPath      string

	// Identifier-safe spellings of the naming convention.
	Entity      string // Post
	Entities    string // Posts
	EntityVar   string // post
	EntitiesVar string // posts

	Interface     string
	StorageSchema string
	Defaults      string

	// Term classification patterns shared with search.BuildFilter.
	RangePattern  string
	BoundPattern  string
	NumberPattern string

	Search       search.Paths
	Accumulators []Accumulator
	Columns      []Column
	FormBody     string
	DetailBody   string
}

func newView(cfg *schema.Config) view {
	n := cfg.Naming
	v := view{
		Naming:       n,
		UID:          cfg.UID,
		TemplateName: cfg.TemplateName,
		APIPath:      n.APIPath(),
		Entity:       orDefault(toPascal(n.SingularPascal), "Item"),
		Entities:     orDefault(toPascal(n.PluralPascal), "Items"),
	}
	v.EntityVar = toCamel(v.Entity)
	v.EntitiesVar = toCamel(v.Entities)

	v.Interface = emit.Interface(cfg.Schema)
	v.StorageSchema = emit.Block(cfg.Schema, typemap.Storage, emit.ObjectStyle, 2)
	v.Defaults = emit.Defaults(cfg.Schema)
	v.Search = search.Flatten(cfg.Schema)
	v.RangePattern = search.RangePattern
	v.BoundPattern = search.BoundPattern
	v.NumberPattern = search.NumberPattern
	v.Accumulators = accumulators(cfg.Schema)
	v.Columns = columns(cfg.Schema)
	v.FormBody = formBody(cfg.Schema)
	v.DetailBody = detailBody(cfg.Schema)
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// accumulators returns one sum per numeric leaf, in traversal order. Nested
// paths are camel-joined ("a.c" -> totalAC). Names are unique: a clash takes
// the lowest free numeric suffix, checked against every name already emitted.
func accumulators(g *schema.Group) []Accumulator {
	var out []Accumulator
	used := map[string]bool{}
	for _, ref := range schema.Leaves(g) {
		if !ref.Leaf.Kind.IsNumeric() {
			continue
		}
		base := "total" + orDefault(toPascal(strings.Join(ref.Path, " ")), "Field")
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s%d", base, n)
		}
		used[name] = true
		out = append(out, Accumulator{
			Name:  name,
			Path:  strings.Join(ref.Path, "."),
			Label: fieldLabel(ref.Key()),
		})
	}
	return out
}

// columns lists the top-level leaves that fit in a table cell.
func columns(g *schema.Group) []Column {
	var out []Column
	if g == nil {
		return out
	}
	for _, f := range g.Fields {
		l, ok := f.Node.(*schema.Leaf)
		if !ok {
			continue
		}
		switch l.Kind {
		case schema.Password, schema.Passcode, schema.RichText, schema.Description,
			schema.Images, schema.StringArray, schema.DateRange, schema.TimeRange:
			continue
		}
		out = append(out, Column{
			Key:      f.Key,
			Label:    fieldLabel(f.Key),
			Kind:     l.Kind,
			Accessor: "row[" + emit.QuoteKey(f.Key) + "]",
			Cell:     cellRenderer(l.Kind),
		})
	}
	return out
}

func cellRenderer(k schema.Kind) string {
	switch k {
	case schema.Boolean, schema.Checkbox:
		return "(getValue() ? 'Yes' : 'No')"
	case schema.Date:
		return "formatDate(getValue())"
	case schema.Image:
		return `(getValue() ? <img src={getValue() as string} alt="" className="h-10 w-10 rounded object-cover" /> : '-')`
	case schema.ColorPicker:
		return `<span className="inline-block h-4 w-8 rounded border" style={{ backgroundColor: getValue() as string }} />`
	case schema.MultiCheckbox, schema.MultiOptions:
		return "((getValue() as string[] | undefined) ?? []).join(', ')"
	}
	return ""
}
