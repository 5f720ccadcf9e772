package schema

import (
	"fmt"

	"google.golang.org/genai"
)

// wireTypes maps concrete kinds onto the Gemini type vocabulary.
var wireTypes = map[Kind]genai.Type{
	KindString:  genai.TypeString,
	KindNumber:  genai.TypeNumber,
	KindInteger: genai.TypeInteger,
	KindBoolean: genai.TypeBoolean,
	KindArray:   genai.TypeArray,
	KindObject:  genai.TypeObject,
	KindEnum:    genai.TypeString,
}

// Compiled pairs a resolved model with its wire schema.
// Neither field may be modified once Compile returns.
type Compiled struct {
	// Model is the declaration this schema was built from.
	Model *Model

	// Root is the resolved field tree used for response validation.
	Root *Field

	// Wire is the schema sent with every generation request.
	Wire *genai.Schema
}

// Compile resolves and translates m.
func Compile(m *Model) (*Compiled, error) {
	root, err := Resolve(m)
	if err != nil {
		return nil, err
	}

	wire, err := toWire(root)
	if err != nil {
		return nil, err
	}

	return &Compiled{Model: m, Root: root, Wire: wire}, nil
}

// Translate converts m into the Gemini response schema dialect.
// The same model always yields an identical schema.
func Translate(m *Model) (*genai.Schema, error) {
	c, err := Compile(m)
	if err != nil {
		return nil, err
	}
	return c.Wire, nil
}

func toWire(f *Field) (*genai.Schema, error) {
	t, ok := wireTypes[f.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q", ErrUnsupportedKind, f.Name, f.Kind)
	}

	s := &genai.Schema{
		Type:        t,
		Description: f.Description,
		Format:      f.Format,
	}

	switch f.Kind {
	case KindEnum:
		s.Enum = append([]string(nil), f.Enum...)
		if s.Format == "" {
			s.Format = "enum"
		}
	case KindArray:
		items, err := toWire(f.Items)
		if err != nil {
			return nil, err
		}
		s.Items = items
	case KindObject:
		if len(f.Properties) > 0 {
			s.Properties = make(map[string]*genai.Schema, len(f.Properties))
		}
		for _, p := range f.Properties {
			child, err := toWire(p)
			if err != nil {
				return nil, err
			}
			s.Properties[p.Name] = child
		}
		s.PropertyOrdering = f.PropertyNames()
		s.Required = f.RequiredNames()
	}

	if f.Nullable {
		nullable := true
		s.Nullable = &nullable
	}

	return s, nil
}
