package schema

// Kind identifies the semantic type of a Field.
type Kind string

// Concrete kinds map directly onto wire types.
const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindEnum    Kind = "enum"
)

// Composition kinds only exist before resolution.
const (
	// KindRef points at a named definition in Model.Defs.
	KindRef Kind = "ref"

	// KindNull is the null branch of a nullable anyOf wrapper.
	KindNull Kind = "null"
)

// Field is one named, typed node of a data model.
//
// Objects list their children in Properties; the slice order is the property
// order sent to the model. Arrays describe their element in Items. A Field
// with AllOf is the deep merge of its branches and its own attributes; a Field
// with AnyOf must hold exactly one non-null branch and one KindNull branch.
type Field struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool
	Nullable    bool
	Format      string
	Enum        []string
	Items       *Field
	Properties  []*Field
	Ref         string
	AllOf       []*Field
	AnyOf       []*Field
}

// Model is a complete structured output contract.
type Model struct {
	// Name identifies the model in logs and errors.
	Name string

	// Root is the top-level object.
	Root *Field

	// Defs holds definitions reachable through KindRef fields.
	Defs map[string]*Field
}

// String declares a required string field.
func String(name, description string) *Field {
	return &Field{Name: name, Kind: KindString, Description: description, Required: true}
}

// Number declares a required floating point field.
func Number(name, description string) *Field {
	return &Field{Name: name, Kind: KindNumber, Description: description, Required: true}
}

// Integer declares a required integer field.
func Integer(name, description string) *Field {
	return &Field{Name: name, Kind: KindInteger, Description: description, Required: true}
}

// Boolean declares a required boolean field.
func Boolean(name, description string) *Field {
	return &Field{Name: name, Kind: KindBoolean, Description: description, Required: true}
}

// Enum declares a required string field restricted to values.
func Enum(name, description string, values ...string) *Field {
	return &Field{Name: name, Kind: KindEnum, Description: description, Required: true, Enum: values}
}

// Array declares a required list whose elements are described by items.
func Array(name, description string, items *Field) *Field {
	return &Field{Name: name, Kind: KindArray, Description: description, Required: true, Items: items}
}

// Object declares a required object with ordered children.
func Object(name, description string, properties ...*Field) *Field {
	return &Field{Name: name, Kind: KindObject, Description: description, Required: true, Properties: properties}
}

// Ref declares a required field whose shape is the definition called def.
func Ref(name, def string) *Field {
	return &Field{Name: name, Kind: KindRef, Required: true, Ref: def}
}

// AllOf declares a required field that deep-merges every branch.
func AllOf(name, description string, branches ...*Field) *Field {
	return &Field{Name: name, Description: description, Required: true, AllOf: branches}
}

// NullableOf wraps inner in a two-branch anyOf with null.
func NullableOf(name, description string, inner *Field) *Field {
	return &Field{
		Name:        name,
		Description: description,
		AnyOf:       []*Field{inner, Null()},
	}
}

// Null is the null branch of a union.
func Null() *Field {
	return &Field{Kind: KindNull}
}

// Optional clears the required flag and returns f.
func (f *Field) Optional() *Field {
	f.Required = false
	return f
}

// OrNull marks f as accepting null and returns f.
func (f *Field) OrNull() *Field {
	f.Nullable = true
	return f
}

// WithFormat sets the wire format hint and returns f.
func (f *Field) WithFormat(format string) *Field {
	f.Format = format
	return f
}

// RequiredNames returns the names of required children in declaration order.
func (f *Field) RequiredNames() []string {
	var names []string
	for _, p := range f.Properties {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// PropertyNames returns the names of all children in declaration order.
func (f *Field) PropertyNames() []string {
	names := make([]string, 0, len(f.Properties))
	for _, p := range f.Properties {
		names = append(names, p.Name)
	}
	return names
}

// property returns the child called name, or nil.
func (f *Field) property(name string) *Field {
	for _, p := range f.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}
