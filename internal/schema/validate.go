package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
)

// Validate parses raw as JSON and checks it against the compiled model.
//
// Every required field must be present, null is only accepted where the field
// is nullable, and values must match their declared kind. Fields the model
// does not declare are dropped from the returned object.
func (c *Compiled) Validate(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: response is not valid JSON: %v", ErrValidation, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected content after JSON document", ErrValidation)
	}

	out, err := check(c.Root, doc, "$")
	if err != nil {
		return nil, err
	}

	obj, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: $: expected object", ErrValidation)
	}
	return obj, nil
}

func check(f *Field, v any, path string) (any, error) {
	if v == nil {
		if f.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: must not be null", ErrValidation, path)
	}

	switch f.Kind {
	case KindString:
		if _, ok := v.(string); !ok {
			return nil, mismatch(path, "string", v)
		}
		return v, nil

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(path, "string", v)
		}
		if !slices.Contains(f.Enum, s) {
			return nil, fmt.Errorf("%w: %s: %q is not one of %v", ErrValidation, path, s, f.Enum)
		}
		return s, nil

	case KindBoolean:
		if _, ok := v.(bool); !ok {
			return nil, mismatch(path, "boolean", v)
		}
		return v, nil

	case KindNumber:
		n, ok := v.(json.Number)
		if !ok {
			return nil, mismatch(path, "number", v)
		}
		if _, err := n.Float64(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidation, path, err)
		}
		return n, nil

	case KindInteger:
		n, ok := v.(json.Number)
		if !ok {
			return nil, mismatch(path, "integer", v)
		}
		if _, err := n.Int64(); err == nil {
			return n, nil
		}
		fv, err := n.Float64()
		if err != nil || fv != math.Trunc(fv) {
			return nil, fmt.Errorf("%w: %s: %s is not an integer", ErrValidation, path, n)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if fv >= math.MaxInt64 || fv < math.MinInt64 {
			return nil, fmt.Errorf("%w: %s: %s is out of integer range", ErrValidation, path, n)
		}
		return json.Number(fmt.Sprintf("%d", int64(fv))), nil

	case KindArray:
		items, ok := v.([]any)
		if !ok {
			return nil, mismatch(path, "array", v)
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			checked, err := check(f.Items, item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, checked)
		}
		return out, nil

	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, mismatch(path, "object", v)
		}
		out := make(map[string]any, len(f.Properties))
		for _, p := range f.Properties {
			child := path + "." + p.Name
			value, present := obj[p.Name]
			if !present {
				if p.Required {
					return nil, fmt.Errorf("%w: %s: missing required field", ErrValidation, child)
				}
				continue
			}
			checked, err := check(p, value, child)
			if err != nil {
				return nil, err
			}
			out[p.Name] = checked
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %s: %q", ErrUnsupportedKind, path, f.Kind)
}

func mismatch(path, want string, got any) error {
	return fmt.Errorf("%w: %s: expected %s, got %s", ErrValidation, path, want, jsonKind(got))
}

func jsonKind(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
