package generation

import (
	"errors"
	"fmt"

	"github.com/phrazzld/podscript/internal/schema"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed marks a result whose retry budget ran out
	ErrGenerationFailed = errors.New("structured generation failed")

	// ErrInvalidResponse is returned when the LLM response has no usable content
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for transport errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during structured generation")

	// ErrInvalidConfig is returned when the generator or request configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrMissingDataModel is returned when neither the instruction nor the request names a data model
	ErrMissingDataModel = fmt.Errorf("%w: no data model resolved for request", ErrInvalidConfig)

	// ErrMissingInstruction is returned when a request carries no instruction text
	ErrMissingInstruction = fmt.Errorf("%w: instruction cannot be empty", ErrInvalidConfig)

	// ErrEmptyPayload is returned when a request carries no input data
	ErrEmptyPayload = fmt.Errorf("%w: payload cannot be empty", ErrInvalidConfig)

	// ErrCancelled marks a result abandoned because the caller's context ended
	ErrCancelled = errors.New("structured generation cancelled")

	// ErrTranslation is returned when the data model cannot be turned into a wire schema
	ErrTranslation = schema.ErrTranslation

	// ErrValidation is returned when response text does not satisfy the data model
	ErrValidation = schema.ErrValidation
)

// IsRetryable reports whether err describes a failure that another attempt may fix.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrTranslation), errors.Is(err, ErrCancelled):
		return false
	default:
		return true
	}
}
