package artifact

import (
	"fmt"
	"strings"

	"github.com/matthewbaird/admingen/internal/schema"
	"github.com/matthewbaird/admingen/internal/typemap"
)

const jsxIndent = "      "

// formBody renders one input per leaf. Nested groups become fieldsets so the
// form mirrors the record's shape.
func formBody(g *schema.Group) string {
	var b strings.Builder
	pad := func(depth int) string { return jsxIndent + strings.Repeat("  ", depth) }

	schema.Walk(g, schema.Visitor{
		Leaf: func(path []string, key string, l *schema.Leaf) {
			full := append(append([]string{}, path...), key)
			b.WriteString(indentLines(formField(full, l), pad(len(path))))
		},
		Enter: func(path []string, key string, _ *schema.Group) {
			fmt.Fprintf(&b, "%s<fieldset className=\"rounded-md border p-4 space-y-3\">\n", pad(len(path)))
			fmt.Fprintf(&b, "%s  <legend className=\"px-1 text-sm font-medium\">%s</legend>\n", pad(len(path)), jsxText(fieldLabel(key)))
		},
		Leave: func(path []string, _ string, _ *schema.Group) {
			fmt.Fprintf(&b, "%s</fieldset>\n", pad(len(path)))
		},
	})
	return b.String()
}

// formField renders the input for one leaf at the given key path.
func formField(full []string, l *schema.Leaf) string {
	p := typemap.JSList(full)
	id := jsxAttr(strings.Join(full, "-"))
	label := jsxText(fieldLabel(full[len(full)-1]))
	val := fmt.Sprintf("getValue(values, %s)", p)

	wrap := func(input string) string {
		return fmt.Sprintf(`<div className="space-y-1">
  <Label htmlFor="%s">%s</Label>
  %s
</div>`, id, label, input)
	}
	text := func(typ string) string {
		return wrap(fmt.Sprintf(`<Input id="%s" type="%s" value={%s ?? ''} onChange={e => setValue(%s, e.target.value)} />`, id, typ, val, p))
	}

	switch l.Kind {
	case schema.Email:
		return text("email")
	case schema.Password:
		return text("password")
	case schema.Phone:
		return text("tel")
	case schema.URL:
		return text("url")
	case schema.ColorPicker:
		return text("color")
	case schema.Time:
		return text("time")
	case schema.IntNumber:
		return wrap(fmt.Sprintf(`<Input id="%s" type="number" step="1" value={%s ?? 0} onChange={e => setValue(%s, parseInt(e.target.value, 10) || 0)} />`, id, val, p))
	case schema.FloatNumber:
		return wrap(fmt.Sprintf(`<Input id="%s" type="number" step="any" value={%s ?? 0} onChange={e => setValue(%s, parseFloat(e.target.value) || 0)} />`, id, val, p))
	case schema.Boolean:
		return wrap(fmt.Sprintf(`<Switch id="%s" checked={!!%s} onCheckedChange={checked => setValue(%s, checked)} />`, id, val, p))
	case schema.Checkbox:
		return wrap(fmt.Sprintf(`<Checkbox id="%s" checked={!!%s} onCheckedChange={checked => setValue(%s, checked === true)} />`, id, val, p))
	case schema.Date:
		return wrap(fmt.Sprintf(`<Input id="%s" type="date" value={toDateInput(%s)} onChange={e => setValue(%s, new Date(e.target.value))} />`, id, val, p))
	case schema.DateRange, schema.TimeRange:
		typ := "date"
		if l.Kind == schema.TimeRange {
			typ = "time"
		}
		return wrap(fmt.Sprintf(`<div className="flex gap-2">
    <Input id="%[1]s" type="%[2]s" value={%[3]s?.start ?? ''} onChange={e => setValue(%[4]s, { ...%[3]s, start: e.target.value })} />
    <Input type="%[2]s" value={%[3]s?.end ?? ''} onChange={e => setValue(%[4]s, { ...%[3]s, end: e.target.value })} />
  </div>`, id, typ, val, p))
	case schema.Description:
		return wrap(fmt.Sprintf(`<Textarea id="%s" value={%s ?? ''} onChange={e => setValue(%s, e.target.value)} />`, id, val, p))
	case schema.RichText:
		return wrap(fmt.Sprintf(`<RichTextEditor value={%s ?? ''} onChange={html => setValue(%s, html)} />`, val, p))
	case schema.Select, schema.DynamicSelect:
		return wrap(fmt.Sprintf(`<select id="%s" className="w-full rounded-md border px-3 py-2" value={%s ?? ''} onChange={e => setValue(%s, e.target.value)}>
    <option value="">Select...</option>
    {%s.map(option => (
      <option key={option} value={option}>{option}</option>
    ))}
  </select>`, id, val, p, typemap.JSList(l.Options)))
	case schema.RadioButton:
		return wrap(fmt.Sprintf(`<div className="flex flex-wrap gap-4">
    {%s.map(option => (
      <label key={option} className="flex items-center gap-2">
        <input type="radio" name="%s" value={option} checked={%s === option} onChange={() => setValue(%s, option)} />
        {option}
      </label>
    ))}
  </div>`, typemap.JSList(l.Options), id, val, p))
	case schema.MultiCheckbox, schema.MultiOptions:
		return wrap(fmt.Sprintf(`<div className="flex flex-wrap gap-4">
    {%s.map(option => (
      <label key={option} className="flex items-center gap-2">
        <Checkbox checked={(%s ?? []).includes(option)} onCheckedChange={() => setValue(%s, toggle(%s ?? [], option))} />
        {option}
      </label>
    ))}
  </div>`, typemap.JSList(l.Options), val, p, val))
	case schema.Image:
		return wrap(fmt.Sprintf(`<ImageUpload value={%s ?? ''} onChange={url => setValue(%s, url)} />`, val, p))
	case schema.Images:
		return wrap(fmt.Sprintf(`<ImageUpload multiple value={%s ?? []} onChange={urls => setValue(%s, urls)} />`, val, p))
	case schema.StringArray:
		return wrap(fmt.Sprintf(`<StringArrayEditor columns={%s} value={%s ?? []} onChange={rows => setValue(%s, rows)} />`, typemap.JSList(typemap.Columns(l)), val, p))
	}
	return text("text")
}

func indentLines(s, pad string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		b.WriteString(pad)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

var (
	jsxTextEscaper = strings.NewReplacer("{", "&#123;", "}", "&#125;", "<", "&lt;", ">", "&gt;", "&", "&amp;")
	jsxAttrEscaper = strings.NewReplacer(`"`, "&quot;", "&", "&amp;")
)

func jsxText(s string) string { return jsxTextEscaper.Replace(s) }
func jsxAttr(s string) string { return jsxAttrEscaper.Replace(s) }
