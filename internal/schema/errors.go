package schema

import (
	"errors"
	"fmt"
)

// Error definitions for the schema package.
var (
	// ErrTranslation is the parent of every error produced while turning a Model
	// into a wire schema. These are configuration errors and are never retried.
	ErrTranslation = errors.New("schema translation failed")

	// ErrUnsupportedKind is returned for a field kind with no wire equivalent.
	ErrUnsupportedKind = fmt.Errorf("%w: unsupported field kind", ErrTranslation)

	// ErrUnsupportedUnion is returned for anyOf forms other than a single
	// non-null branch paired with a null branch.
	ErrUnsupportedUnion = fmt.Errorf("%w: unsupported union", ErrTranslation)

	// ErrReferenceCycle is returned when resolving a reference leads back to itself.
	ErrReferenceCycle = fmt.Errorf("%w: reference cycle", ErrTranslation)

	// ErrUnknownRef is returned when a reference names a missing definition.
	ErrUnknownRef = fmt.Errorf("%w: unknown reference", ErrTranslation)

	// ErrInvalidField is returned when a field breaks a structural invariant.
	ErrInvalidField = fmt.Errorf("%w: invalid field", ErrTranslation)

	// ErrValidation is returned when a response does not satisfy a Model.
	ErrValidation = errors.New("response failed schema validation")
)
