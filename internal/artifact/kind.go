package artifact

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/matthewbaird/admingen/internal/schema"
)

// ErrUnknownKind is returned for an artifact kind that has no assembler.
var ErrUnknownKind = errors.New("unknown artifact kind")

// Kind names one generated file.
type Kind string

const (
	Model        Kind = "model"
	Controller   Kind = "controller"
	Route        Kind = "route"
	Summary      Kind = "summary"
	SummaryRoute Kind = "summary-route"
	StoreData    Kind = "store-data"
	Store        Kind = "store"
	RTKAPI       Kind = "rtk-api"
	Form         Kind = "form"
	Columns      Kind = "columns"
	Detail       Kind = "detail"
)

// kindPaths are relative to the entity's "all" directory.
var kindPaths = []struct {
	kind Kind
	path string
}{
	{Model, "api/v1/model.ts"},
	{Controller, "api/v1/controller.ts"},
	{Route, "api/v1/route.ts"},
	{Summary, "api/v1/summary/controller.ts"},
	{SummaryRoute, "api/v1/summary/route.ts"},
	{StoreData, "store/data/data.ts"},
	{Store, "store/store.ts"},
	{RTKAPI, "redux/rtk-api.ts"},
	{Form, "components/form/FormFields.tsx"},
	{Columns, "components/table/columns.tsx"},
	{Detail, "components/View.tsx"},
}

// Kinds returns every artifact kind in generation order.
func Kinds() []Kind {
	out := make([]Kind, len(kindPaths))
	for i, kp := range kindPaths {
		out[i] = kp.kind
	}
	return out
}

// Valid reports whether k has an assembler.
func (k Kind) Valid() bool {
	for _, kp := range kindPaths {
		if kp.kind == k {
			return true
		}
	}
	return false
}

// RelPath is the file path of k below the entity's "all" directory.
func (k Kind) RelPath() string {
	for _, kp := range kindPaths {
		if kp.kind == k {
			return kp.path
		}
	}
	return ""
}

// Path is the output file path of k for the given entity.
func (k Kind) Path(n schema.NamingConvention) string {
	rel := k.RelPath()
	if rel == "" {
		return ""
	}
	return path.Join(n.BaseDir(), "all", rel)
}

// ParseKinds parses a comma-separated kind list. An empty list means all kinds.
func ParseKinds(list string) ([]Kind, error) {
	if strings.TrimSpace(list) == "" {
		return Kinds(), nil
	}
	var out []Kind
	seen := map[Kind]bool{}
	for _, part := range strings.Split(list, ",") {
		k := Kind(strings.TrimSpace(part))
		if k == "" {
			continue
		}
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}
