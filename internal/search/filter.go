package search

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Filter is a MongoDB query document.
type Filter map[string]any

// RangeMarker separates the field from the bounds in a range term,
// as in "createdAt:range:2024-01-01_2024-01-31".
const RangeMarker = ":range:"

// The generated controller embeds these patterns verbatim, so a term is
// classified the same way here and in the generated list endpoint. BuildFilter
// is the reference for that endpoint's query.
const (
	// RangePattern splits a range term at the first marker; the start bound
	// runs to the first underscore.
	RangePattern = `^(.+?)` + RangeMarker + `([^_]+)_(.+)$`
	// BoundPattern accepts a date or an RFC 3339 timestamp.
	BoundPattern = `^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2}))?$`
	// NumberPattern accepts plain decimal numbers only: no hex, no Infinity.
	NumberPattern = `^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`
)

var (
	rangeRe  = regexp.MustCompile(RangePattern)
	boundRe  = regexp.MustCompile(BoundPattern)
	numberRe = regexp.MustCompile(NumberPattern)

	rangeLayouts = []string{"2006-01-02", time.RFC3339}
)

// Range is an inclusive date range on one field.
type Range struct {
	Field string
	Start time.Time
	End   time.Time
}

// ParseRange recognizes "<field>:range:<start>_<end>". Date-only bounds are
// UTC days and the end bound covers the whole of its day.
func ParseRange(term string) (Range, bool) {
	m := rangeRe.FindStringSubmatch(strings.TrimSpace(term))
	if m == nil {
		return Range{}, false
	}
	field, rawStart, rawEnd := m[1], m[2], m[3]
	start, _, ok := parseBound(rawStart)
	if !ok {
		return Range{}, false
	}
	end, dateOnly, ok := parseBound(rawEnd)
	if !ok {
		return Range{}, false
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Millisecond)
	}
	if end.Before(start) {
		return Range{}, false
	}
	return Range{Field: field, Start: start, End: end}, true
}

func parseBound(s string) (t time.Time, dateOnly bool, ok bool) {
	if !boundRe.MatchString(s) {
		return time.Time{}, false, false
	}
	for i, layout := range rangeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), i == 0, true
		}
	}
	return time.Time{}, false, false
}

// ParseNumber reports whether term is a plain finite decimal number.
func ParseNumber(term string) (float64, bool) {
	if !numberRe.MatchString(term) {
		return 0, false
	}
	n, err := strconv.ParseFloat(term, 64)
	if err != nil || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// BuildFilter turns a search term into the list endpoint's query.
//
// An empty term matches everything. A range term produces a single inclusive
// date condition and nothing else. Any other term produces an $or of one
// case-insensitive substring clause per text path, plus one equality clause
// per numeric path when the term is a number.
func BuildFilter(p Paths, term string) Filter {
	term = strings.TrimSpace(term)
	if term == "" {
		return Filter{}
	}

	if r, ok := ParseRange(term); ok {
		return Filter{r.Field: Filter{"$gte": r.Start, "$lte": r.End}}
	}

	clauses := make([]Filter, 0, len(p.Text)+len(p.Numeric))
	pattern := regexp.QuoteMeta(term)
	for _, path := range p.Text {
		clauses = append(clauses, Filter{path: Filter{"$regex": pattern, "$options": "i"}})
	}
	if n, ok := ParseNumber(term); ok {
		for _, path := range p.Numeric {
			clauses = append(clauses, Filter{path: n})
		}
	}

	if len(clauses) == 0 {
		// nothing can match; an empty $or is rejected by MongoDB
		return Filter{"_id": nil}
	}
	return Filter{"$or": clauses}
}
