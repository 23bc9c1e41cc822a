package schema

import "strings"

// Kind is the semantic type of a leaf field.
type Kind int

const (
	String Kind = iota
	Email
	Password
	Passcode
	Select
	DynamicSelect
	Images
	Image
	Description
	IntNumber
	FloatNumber
	Boolean
	Date
	Time
	DateRange
	TimeRange
	ColorPicker
	Phone
	URL
	RichText
	Autocomplete
	RadioButton
	Checkbox
	MultiCheckbox
	StringArray
	MultiOptions
)

// kindTags lists the wire tag of every kind, indexed by Kind.
var kindTags = [...]string{
	String:        "STRING",
	Email:         "EMAIL",
	Password:      "PASSWORD",
	Passcode:      "PASSCODE",
	Select:        "SELECT",
	DynamicSelect: "DYNAMICSELECT",
	Images:        "IMAGES",
	Image:         "IMAGE",
	Description:   "DESCRIPTION",
	IntNumber:     "INTNUMBER",
	FloatNumber:   "FLOATNUMBER",
	Boolean:       "BOOLEAN",
	Date:          "DATE",
	Time:          "TIME",
	DateRange:     "DATERANGE",
	TimeRange:     "TIMERANGE",
	ColorPicker:   "COLORPICKER",
	Phone:         "PHONE",
	URL:           "URL",
	RichText:      "RICHTEXT",
	Autocomplete:  "AUTOCOMPLETE",
	RadioButton:   "RADIOBUTTON",
	Checkbox:      "CHECKBOX",
	MultiCheckbox: "MULTICHECKBOX",
	StringArray:   "STRINGARRAY",
	MultiOptions:  "MULTIOPTIONS",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTags))
	for k, tag := range kindTags {
		m[tag] = Kind(k)
	}
	return m
}()

// Kinds returns the full vocabulary in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindTags))
	for i := range kindTags {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindTags) {
		return kindTags[String]
	}
	return kindTags[k]
}

// IsNumeric reports whether values of this kind are stored as numbers.
func (k Kind) IsNumeric() bool {
	return k == IntNumber || k == FloatNumber
}

// HasOptions reports whether the kind draws its values from a fixed option list.
func (k Kind) HasOptions() bool {
	switch k {
	case Select, RadioButton, MultiCheckbox, MultiOptions:
		return true
	}
	return false
}

// SplitTag separates a raw tag such as "SELECT#a,b" into its tag and option text.
func SplitTag(raw string) (tag, options string) {
	tag, options, _ = strings.Cut(raw, "#")
	return strings.TrimSpace(tag), options
}

// ParseKind resolves a raw tag to its Kind. Any "#options" suffix is ignored.
// Unrecognized tags resolve to String and report false.
func ParseKind(raw string) (Kind, bool) {
	tag, _ := SplitTag(raw)
	k, ok := tagKinds[tag]
	if !ok {
		return String, false
	}
	return k, true
}

// ParseOptions splits option text on ',' and '|', trimming blanks.
func ParseOptions(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '|' })
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
