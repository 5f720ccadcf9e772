package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Resolve flattens m into a tree of concrete fields: references are replaced
// by their definitions, allOf branches are deep-merged and nullable anyOf
// wrappers collapse into their non-null branch with Nullable set.
//
// The returned tree shares nothing with m.
func Resolve(m *Model) (*Field, error) {
	if m == nil || m.Root == nil {
		return nil, fmt.Errorf("%w: model has no root", ErrInvalidField)
	}

	r := &resolver{
		defs:   m.Defs,
		onPath: make(map[*Field]bool),
	}

	path := m.Name
	if path == "" {
		path = "$"
	}

	root, err := r.resolve(m.Root, path)
	if err != nil {
		return nil, err
	}
	if root.Kind != KindObject {
		return nil, fmt.Errorf("%w: %s: root must be an object, got %q", ErrInvalidField, path, root.Kind)
	}
	return root, nil
}

type resolver struct {
	defs map[string]*Field

	// refs is the chain of definitions currently being expanded.
	refs []string

	// onPath guards against fields that contain themselves by pointer.
	onPath map[*Field]bool
}

func (r *resolver) resolve(f *Field, path string) (*Field, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: %s: nil field", ErrInvalidField, path)
	}
	if r.onPath[f] {
		return nil, fmt.Errorf("%w: %s: field contains itself", ErrReferenceCycle, path)
	}
	r.onPath[f] = true
	defer delete(r.onPath, f)

	switch {
	case f.Kind == KindRef:
		return r.resolveRef(f, path)
	case len(f.AllOf) > 0:
		return r.resolveAllOf(f, path)
	case len(f.AnyOf) > 0:
		return r.resolveAnyOf(f, path)
	default:
		return r.resolveConcrete(f, path)
	}
}

func (r *resolver) resolveRef(f *Field, path string) (*Field, error) {
	if slices.Contains(r.refs, f.Ref) {
		chain := append(slices.Clone(r.refs), f.Ref)
		return nil, fmt.Errorf("%w: %s: %s", ErrReferenceCycle, path, strings.Join(chain, " -> "))
	}

	def, ok := r.defs[f.Ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q", ErrUnknownRef, path, f.Ref)
	}

	r.refs = append(r.refs, f.Ref)
	resolved, err := r.resolve(def, path)
	r.refs = r.refs[:len(r.refs)-1]
	if err != nil {
		return nil, err
	}

	adopt(resolved, f)
	resolved.Nullable = resolved.Nullable || f.Nullable
	return resolved, nil
}

func (r *resolver) resolveAllOf(f *Field, path string) (*Field, error) {
	merged := &Field{}
	for i, branch := range f.AllOf {
		resolved, err := r.resolve(branch, fmt.Sprintf("%s.allOf[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if err := merge(merged, resolved, path); err != nil {
			return nil, err
		}
	}

	// Attributes declared next to allOf take part in the merge as a last branch.
	own := *f
	own.AllOf = nil
	if own.Kind == "" && len(own.Properties) > 0 {
		own.Kind = KindObject
	}
	if own.Kind != "" {
		resolved, err := r.resolveConcrete(&own, path)
		if err != nil {
			return nil, err
		}
		if err := merge(merged, resolved, path); err != nil {
			return nil, err
		}
	}

	if merged.Kind == "" {
		return nil, fmt.Errorf("%w: %s: allOf resolves to no kind", ErrInvalidField, path)
	}

	adopt(merged, f)
	merged.Nullable = merged.Nullable || f.Nullable
	return merged, nil
}

func (r *resolver) resolveAnyOf(f *Field, path string) (*Field, error) {
	if len(f.AnyOf) != 2 {
		return nil, fmt.Errorf("%w: %s: %d branches, only a value/null pair is supported",
			ErrUnsupportedUnion, path, len(f.AnyOf))
	}

	var inner *Field
	nulls := 0
	for _, branch := range f.AnyOf {
		if branch != nil && branch.Kind == KindNull {
			nulls++
			continue
		}
		inner = branch
	}
	if nulls != 1 {
		return nil, fmt.Errorf("%w: %s: expected exactly one null branch, found %d",
			ErrUnsupportedUnion, path, nulls)
	}

	resolved, err := r.resolve(inner, path)
	if err != nil {
		return nil, err
	}

	adopt(resolved, f)
	resolved.Nullable = true
	return resolved, nil
}

func (r *resolver) resolveConcrete(f *Field, path string) (*Field, error) {
	out := &Field{
		Name:        f.Name,
		Kind:        f.Kind,
		Description: f.Description,
		Required:    f.Required,
		Nullable:    f.Nullable,
		Format:      f.Format,
		Enum:        slices.Clone(f.Enum),
	}

	switch f.Kind {
	case KindString, KindNumber, KindInteger, KindBoolean:
	case KindEnum:
		if len(f.Enum) == 0 {
			return nil, fmt.Errorf("%w: %s: enum without values", ErrInvalidField, path)
		}
	case KindArray:
		if f.Items == nil {
			return nil, fmt.Errorf("%w: %s: array without item descriptor", ErrInvalidField, path)
		}
		items, err := r.resolve(f.Items, path+"[]")
		if err != nil {
			return nil, err
		}
		out.Items = items
	case KindObject:
		seen := make(map[string]bool, len(f.Properties))
		for _, p := range f.Properties {
			if p == nil || p.Name == "" {
				return nil, fmt.Errorf("%w: %s: unnamed property", ErrInvalidField, path)
			}
			if seen[p.Name] {
				return nil, fmt.Errorf("%w: %s: duplicate property %q", ErrInvalidField, path, p.Name)
			}
			seen[p.Name] = true

			child, err := r.resolve(p, path+"."+p.Name)
			if err != nil {
				return nil, err
			}
			out.Properties = append(out.Properties, child)
		}
	case KindNull:
		return nil, fmt.Errorf("%w: %s: null is only valid inside anyOf", ErrUnsupportedUnion, path)
	case "":
		return nil, fmt.Errorf("%w: %s: missing kind", ErrInvalidField, path)
	default:
		return nil, fmt.Errorf("%w: %s: %q", ErrUnsupportedKind, path, f.Kind)
	}

	return out, nil
}

// adopt copies the identity of the declaring site onto a resolved field.
func adopt(resolved, site *Field) {
	resolved.Name = site.Name
	resolved.Required = site.Required
	if site.Description != "" {
		resolved.Description = site.Description
	}
}

// merge deep-merges src into dst. Later values win for scalar attributes,
// children with the same name are merged recursively and a child required by
// either side stays required.
func merge(dst, src *Field, path string) error {
	switch {
	case dst.Kind == "":
		dst.Kind = src.Kind
	case src.Kind != "" && src.Kind != dst.Kind:
		return fmt.Errorf("%w: %s: cannot merge %q with %q", ErrInvalidField, path, dst.Kind, src.Kind)
	}

	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if len(src.Enum) > 0 {
		dst.Enum = slices.Clone(src.Enum)
	}
	dst.Nullable = dst.Nullable || src.Nullable

	if src.Items != nil {
		if dst.Items == nil {
			dst.Items = src.Items
		} else if err := merge(dst.Items, src.Items, path+"[]"); err != nil {
			return err
		}
	}

	for _, sp := range src.Properties {
		dp := dst.property(sp.Name)
		if dp == nil {
			dst.Properties = append(dst.Properties, sp)
			continue
		}
		required := dp.Required || sp.Required
		if err := merge(dp, sp, path+"."+sp.Name); err != nil {
			return err
		}
		dp.Required = required
	}

	return nil
}
