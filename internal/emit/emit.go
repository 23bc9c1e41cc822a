// Package emit renders a schema's field tree as the body of a TypeScript
// interface, a Mongoose schema definition, or an object literal. All three
// share one traversal so field order lines up across generated files.
package emit

import (
	"fmt"
	"strings"

	"github.com/matthewbaird/admingen/internal/schema"
	"github.com/matthewbaird/admingen/internal/typemap"
)

// Style controls the punctuation of an emitted block.
type Style struct {
	Separator string
	Indent    string
}

var (
	// InterfaceStyle terminates members with ';' as in a TypeScript interface.
	InterfaceStyle = Style{Separator: ";", Indent: "  "}
	// ObjectStyle terminates members with ',' as in an object literal.
	ObjectStyle = Style{Separator: ",", Indent: "  "}
)

// Block emits one line per field of g, starting at the given indentation depth.
// Keys are always double-quoted. Nested groups open a brace block one level
// deeper; empty groups are written as {}.
func Block(g *schema.Group, table typemap.Table, style Style, depth int) string {
	var b strings.Builder
	pad := func(path []string) string {
		return strings.Repeat(style.Indent, depth+len(path))
	}

	schema.Walk(g, schema.Visitor{
		Leaf: func(path []string, key string, l *schema.Leaf) {
			fmt.Fprintf(&b, "%s%s: %s%s\n", pad(path), QuoteKey(key), table(l), style.Separator)
		},
		Enter: func(path []string, key string, grp *schema.Group) {
			if grp.Len() == 0 {
				fmt.Fprintf(&b, "%s%s: {}%s\n", pad(path), QuoteKey(key), style.Separator)
				return
			}
			fmt.Fprintf(&b, "%s%s: {\n", pad(path), QuoteKey(key))
		},
		Leave: func(path []string, key string, grp *schema.Group) {
			if grp.Len() > 0 {
				fmt.Fprintf(&b, "%s}%s\n", pad(path), style.Separator)
			}
		},
	})
	return b.String()
}

// Interface emits the members of the record's TypeScript interface.
func Interface(g *schema.Group) string {
	return Block(g, typemap.Interface, InterfaceStyle, 1)
}

// StorageSchema emits the members of the record's Mongoose schema definition.
func StorageSchema(g *schema.Group) string {
	return Block(g, typemap.Storage, ObjectStyle, 1)
}

// Defaults emits the members of the record's default-value object.
func Defaults(g *schema.Group) string {
	return Block(g, typemap.Default, ObjectStyle, 1)
}

// QuoteKey renders key as a double-quoted JavaScript string.
func QuoteKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 2)
	b.WriteByte('"')
	for _, r := range key {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x2028 || r == 0x2029:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
