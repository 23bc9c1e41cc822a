package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

var (
	// ErrMalformed is returned when the config cannot be parsed or has
	// values of the wrong shape.
	ErrMalformed = errors.New("malformed config")

	// ErrMissingSchema is returned when the config has no schema object.
	ErrMissingSchema = errors.New("config has no schema")

	// ErrMissingNaming is returned when the naming convention or one of
	// its names is absent.
	ErrMissingNaming = errors.New("config has no naming convention")
)

// Decode parses a JSON config document.
func Decode(data []byte) (*Config, error) {
	return DecodeNamed("config.json", data)
}

// DecodeFile reads and parses a config file. Files ending in .cue are
// compiled as CUE; anything else is parsed as JSON.
func DecodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeNamed(path, data)
}

// DecodeNamed parses data, using name for the format choice and in error positions.
func DecodeNamed(name string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	var v cue.Value
	if strings.EqualFold(filepath.Ext(name), ".cue") {
		v = ctx.CompileBytes(data, cue.Filename(name))
	} else {
		expr, err := cuejson.Extract(name, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		v = ctx.BuildExpr(expr)
	}
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if v.Kind() != cue.StructKind {
		return nil, fmt.Errorf("%w: top level must be an object, got %s", ErrMalformed, v.Kind())
	}

	cfg := &Config{}
	var err error
	if cfg.UID, err = optionalString(v, "uid"); err != nil {
		return nil, err
	}
	if cfg.TemplateName, err = optionalString(v, "templateName"); err != nil {
		return nil, err
	}

	schemaVal := v.LookupPath(cue.MakePath(cue.Str("schema")))
	if !schemaVal.Exists() {
		return nil, ErrMissingSchema
	}
	if schemaVal.Kind() != cue.StructKind {
		return nil, fmt.Errorf("%w: schema must be an object, got %s", ErrMalformed, schemaVal.Kind())
	}
	if cfg.Schema, err = decodeGroup(schemaVal, nil); err != nil {
		return nil, err
	}

	namingVal := v.LookupPath(cue.MakePath(cue.Str("namingConvention")))
	if !namingVal.Exists() {
		return nil, ErrMissingNaming
	}
	if cfg.Naming, err = decodeNaming(namingVal); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeGroup(v cue.Value, path []string) (*Group, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	g := &Group{}
	for iter.Next() {
		key := iter.Selector().Unquoted()
		fv := iter.Value()
		switch fv.Kind() {
		case cue.StringKind:
			raw, _ := fv.String()
			g.Add(key, NewLeaf(raw))
		case cue.StructKind:
			child, err := decodeGroup(fv, appendPath(path, key))
			if err != nil {
				return nil, err
			}
			g.Add(key, child)
		default:
			return nil, fmt.Errorf("%w: field %q: expected a type tag or an object, got %s",
				ErrMalformed, strings.Join(appendPath(path, key), "."), fv.Kind())
		}
	}
	return g, nil
}

func decodeNaming(v cue.Value) (NamingConvention, error) {
	var n NamingConvention
	if v.Kind() != cue.StructKind {
		return n, fmt.Errorf("%w: namingConvention must be an object, got %s", ErrMalformed, v.Kind())
	}

	targets := []struct {
		key string
		dst *string
	}{
		{KeyPluralPascal, &n.PluralPascal},
		{KeyPluralLower, &n.PluralLower},
		{KeySingularPascal, &n.SingularPascal},
		{KeySingularLower, &n.SingularLower},
	}
	for _, t := range targets {
		fv, ok := lookupNaming(v, t.key)
		if !ok {
			return n, fmt.Errorf("%w: missing %q", ErrMissingNaming, t.key)
		}
		s, err := fv.String()
		if err != nil || s == "" {
			return n, fmt.Errorf("%w: %q must be a non-empty string", ErrMalformed, t.key)
		}
		*t.dst = s
	}

	if fv, ok := lookupNaming(v, KeyUseGenerateFolder); ok {
		b, err := fv.Bool()
		if err != nil {
			return n, fmt.Errorf("%w: %q must be a boolean", ErrMalformed, KeyUseGenerateFolder)
		}
		n.UseGenerateFolder = b
	}
	return n, nil
}

func lookupNaming(v cue.Value, key string) (cue.Value, bool) {
	for _, k := range []string{key, namingAliases[key]} {
		fv := v.LookupPath(cue.MakePath(cue.Str(k)))
		if fv.Exists() {
			return fv, true
		}
	}
	return cue.Value{}, false
}

func optionalString(v cue.Value, key string) (string, error) {
	fv := v.LookupPath(cue.MakePath(cue.Str(key)))
	if !fv.Exists() {
		return "", nil
	}
	switch fv.Kind() {
	case cue.StringKind:
		s, _ := fv.String()
		return s, nil
	case cue.IntKind:
		i, err := fv.Int64()
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
		}
		return strconv.FormatInt(i, 10), nil
	case cue.NullKind:
		return "", nil
	}
	return "", fmt.Errorf("%w: %s must be a string, got %s", ErrMalformed, key, fv.Kind())
}
