// Package typemap holds the three parallel lookup tables that turn a leaf's
// semantic type into generated TypeScript:
//
//	Tag            Storage (Mongoose)                       Interface                 Default
//	STRING         { type: String, trim: true }            string                    ''
//	EMAIL          { type: String, ..., match: [...] }     string                    ''
//	INTNUMBER      { type: Number, default: 0 }            number                    0
//	FLOATNUMBER    { type: Number, default: 0 }            number                    0
//	BOOLEAN        { type: Boolean, default: false }       boolean                   false
//	DATE           { type: Date, default: Date.now }       Date                      new Date()
//	DATERANGE      { start: ..., end: ... }                { start: Date; end: Date } { start: new Date(), end: new Date() }
//	IMAGES         { type: [String], default: [] }         string[]                  []
//	STRINGARRAY    [{ <col>: { type: String } }]           Array<{ <col>: string }>  []
//
// Unknown tags resolve to the STRING row in every table.
package typemap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matthewbaird/admingen/internal/schema"
)

// Table maps a leaf to a fragment of generated source.
type Table func(l *schema.Leaf) string

// Category groups kinds whose interface type and default literal agree.
type Category int

const (
	Text Category = iota
	Number
	Bool
	Timestamp
	List
	Range
	Rows
)

func (c Category) String() string {
	switch c {
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Timestamp:
		return "date"
	case List:
		return "list"
	case Range:
		return "range"
	case Rows:
		return "rows"
	}
	return "text"
}

// CategoryOf returns the value category shared by all three tables for k.
func CategoryOf(k schema.Kind) Category {
	switch k {
	case schema.IntNumber, schema.FloatNumber:
		return Number
	case schema.Boolean, schema.Checkbox:
		return Bool
	case schema.Date:
		return Timestamp
	case schema.Images, schema.MultiCheckbox, schema.MultiOptions:
		return List
	case schema.DateRange, schema.TimeRange:
		return Range
	case schema.StringArray:
		return Rows
	}
	return Text
}

const (
	emailPattern = `/^[^\s@]+@[^\s@]+\.[^\s@]+$/`
	phonePattern = `/^\+?[0-9\s\-()]{7,20}$/`
	urlPattern   = `/^https?:\/\/\S+$/`
	colorPattern = `/^#(?:[0-9a-fA-F]{3}){1,2}$/`
)

// Storage is the Mongoose field declaration table.
func Storage(l *schema.Leaf) string {
	switch l.Kind {
	case schema.Email:
		return fmt.Sprintf("{ type: String, trim: true, lowercase: true, match: [%s, 'Invalid email address'] }", emailPattern)
	case schema.Password:
		return "{ type: String, required: true }"
	case schema.Passcode:
		return "{ type: String, trim: true }"
	case schema.Select, schema.RadioButton:
		if len(l.Options) > 0 {
			return fmt.Sprintf("{ type: String, enum: %s }", JSList(l.Options))
		}
		return "{ type: String, trim: true }"
	case schema.DynamicSelect, schema.Autocomplete, schema.Image, schema.Time:
		return "{ type: String }"
	case schema.Description, schema.RichText:
		return "{ type: String }"
	case schema.IntNumber, schema.FloatNumber:
		return "{ type: Number, default: 0 }"
	case schema.Boolean, schema.Checkbox:
		return "{ type: Boolean, default: false }"
	case schema.Date:
		return "{ type: Date, default: Date.now }"
	case schema.DateRange:
		return "{ start: { type: Date }, end: { type: Date } }"
	case schema.TimeRange:
		return "{ start: { type: String }, end: { type: String } }"
	case schema.ColorPicker:
		return fmt.Sprintf("{ type: String, match: [%s, 'Invalid color'] }", colorPattern)
	case schema.Phone:
		return fmt.Sprintf("{ type: String, trim: true, match: [%s, 'Invalid phone number'] }", phonePattern)
	case schema.URL:
		return fmt.Sprintf("{ type: String, trim: true, match: [%s, 'Invalid URL'] }", urlPattern)
	case schema.Images:
		return "{ type: [String], default: [] }"
	case schema.MultiCheckbox, schema.MultiOptions:
		if len(l.Options) > 0 {
			return fmt.Sprintf("{ type: [String], enum: %s, default: [] }", JSList(l.Options))
		}
		return "{ type: [String], default: [] }"
	case schema.StringArray:
		cols := Columns(l)
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = fmt.Sprintf("%s: { type: String }", PropertyName(c))
		}
		return "[{ " + strings.Join(parts, ", ") + " }]"
	}
	return "{ type: String, trim: true }"
}

// Interface is the TypeScript type table.
func Interface(l *schema.Leaf) string {
	switch CategoryOf(l.Kind) {
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Timestamp:
		return "Date"
	case List:
		return "string[]"
	case Range:
		if l.Kind == schema.DateRange {
			return "{ start: Date; end: Date }"
		}
		return "{ start: string; end: string }"
	case Rows:
		cols := Columns(l)
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = PropertyName(c) + ": string"
		}
		return "Array<{ " + strings.Join(parts, "; ") + " }>"
	}
	return "string"
}

// Default is the initializer table.
func Default(l *schema.Leaf) string {
	switch CategoryOf(l.Kind) {
	case Number:
		return "0"
	case Bool:
		return "false"
	case Timestamp:
		return "new Date()"
	case List, Rows:
		return "[]"
	case Range:
		if l.Kind == schema.DateRange {
			return "{ start: new Date(), end: new Date() }"
		}
		return "{ start: '', end: '' }"
	}
	return "''"
}

// StorageDecl looks up a raw tag such as "SELECT#a,b" in the storage table.
func StorageDecl(tag string) string { return Storage(schema.NewLeaf(tag)) }

// InterfaceType looks up a raw tag in the interface table.
func InterfaceType(tag string) string { return Interface(schema.NewLeaf(tag)) }

// DefaultValue looks up a raw tag in the default table.
func DefaultValue(tag string) string { return Default(schema.NewLeaf(tag)) }

// Columns are the row columns of a STRINGARRAY leaf.
func Columns(l *schema.Leaf) []string {
	if len(l.Options) == 0 {
		return []string{"value"}
	}
	return l.Options
}

// PropertyName quotes a property name unless it is a plain identifier.
func PropertyName(s string) string {
	if IsIdentifier(s) {
		return s
	}
	return strconv.Quote(s)
}

// IsIdentifier reports whether s can be written as a bare JavaScript identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

var jsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)

// JSString renders s as a single-quoted JavaScript string literal.
func JSString(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}

// JSList renders values as an array literal of single-quoted strings.
func JSList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = JSString(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
