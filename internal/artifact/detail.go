package artifact

import (
	"fmt"
	"strings"

	"github.com/matthewbaird/admingen/internal/schema"
	"github.com/matthewbaird/admingen/internal/typemap"
)

// detailBody renders a labelled read-only row per leaf of the selected record.
func detailBody(g *schema.Group) string {
	var b strings.Builder
	pad := func(depth int) string { return jsxIndent + strings.Repeat("  ", depth) }

	schema.Walk(g, schema.Visitor{
		Leaf: func(path []string, key string, l *schema.Leaf) {
			full := append(append([]string{}, path...), key)
			b.WriteString(indentLines(detailRow(full, l), pad(len(path))))
		},
		Enter: func(path []string, key string, _ *schema.Group) {
			fmt.Fprintf(&b, "%s<section className=\"space-y-2 border-l pl-4\">\n", pad(len(path)))
			fmt.Fprintf(&b, "%s  <h3 className=\"text-sm font-semibold\">%s</h3>\n", pad(len(path)), jsxText(fieldLabel(key)))
		},
		Leave: func(path []string, _ string, _ *schema.Group) {
			fmt.Fprintf(&b, "%s</section>\n", pad(len(path)))
		},
	})
	return b.String()
}

func detailRow(full []string, l *schema.Leaf) string {
	val := fmt.Sprintf("getValue(item, %s)", typemap.JSList(full))
	label := jsxText(fieldLabel(full[len(full)-1]))

	var display string
	switch l.Kind {
	case schema.Password, schema.Passcode:
		display = `'••••••'`
	case schema.Boolean, schema.Checkbox:
		display = fmt.Sprintf(`%s ? 'Yes' : 'No'`, val)
	case schema.Date:
		display = fmt.Sprintf(`formatDate(%s)`, val)
	case schema.DateRange, schema.TimeRange:
		display = fmt.Sprintf(`formatRange(%s)`, val)
	case schema.Image:
		return row(label, fmt.Sprintf(`{%s ? <img src={%s} alt=%q className="h-24 w-24 rounded object-cover" /> : '-'}`, val, val, fieldLabel(full[len(full)-1])))
	case schema.Images:
		return row(label, fmt.Sprintf(`<div className="flex flex-wrap gap-2">
    {(%s ?? []).map((src: string) => (
      <img key={src} src={src} alt="" className="h-16 w-16 rounded object-cover" />
    ))}
  </div>`, val))
	case schema.RichText:
		return row(label, fmt.Sprintf(`<div className="prose" dangerouslySetInnerHTML={{ __html: %s ?? '' }} />`, val))
	case schema.ColorPicker:
		return row(label, fmt.Sprintf(`<span className="inline-block h-4 w-8 rounded border" style={{ backgroundColor: %s }} />`, val))
	case schema.StringArray:
		cols := typemap.Columns(l)
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = fmt.Sprintf("row[%s]", typemap.JSString(c))
		}
		return row(label, fmt.Sprintf(`<ul className="list-disc pl-4">
    {(%s ?? []).map((row: Record<string, string>, i: number) => (
      <li key={i}>{%s}</li>
    ))}
  </ul>`, val, strings.Join(cells, " + ' / ' + ")))
	case schema.MultiCheckbox, schema.MultiOptions:
		display = fmt.Sprintf(`(%s ?? []).join(', ')`, val)
	default:
		display = fmt.Sprintf(`String(%s ?? '-')`, val)
	}
	return row(label, "{"+display+"}")
}

func row(label, content string) string {
	return fmt.Sprintf(`<div className="grid grid-cols-3 gap-2">
  <dt className="font-medium text-muted-foreground">%s</dt>
  <dd className="col-span-2">%s</dd>
</div>`, label, content)
}
