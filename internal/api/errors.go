package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/podscript/internal/api/shared"
	"github.com/phrazzld/podscript/internal/audio"
	"github.com/phrazzld/podscript/internal/generation"
	"github.com/phrazzld/podscript/internal/podcast"
	"github.com/phrazzld/podscript/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Bad request errors
	case errors.As(err, &validationErrs),
		errors.Is(err, podcast.ErrInvalidCast),
		errors.Is(err, podcast.ErrEmptyContent),
		errors.Is(err, ErrMissingPathParam),
		errors.Is(err, ErrInvalidPathID),
		errors.Is(err, ErrInvalidRequestBody),
		errors.Is(err, audio.ErrUnknownSpeaker),
		errors.Is(err, audio.ErrEmptyScript):
		return http.StatusBadRequest

	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	// Not found errors
	case errors.Is(err, task.ErrJobNotFound):
		return http.StatusNotFound

	// The caller went away or the server is shutting down
	case errors.Is(err, generation.ErrCancelled),
		errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	// Upstream model errors
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, podcast.ErrInconsistentScript):
		return http.StatusBadGateway

	// Configuration and everything else
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, podcast.ErrUnknownVoice):
		return "Unknown voice requested"
	case errors.Is(err, podcast.ErrInvalidCast):
		return "Invalid speaker or voice selection"
	case errors.Is(err, podcast.ErrEmptyContent):
		return "Content is required"
	case errors.Is(err, audio.ErrUnknownSpeaker):
		return "Script names a speaker without a valid voice"
	case errors.Is(err, audio.ErrEmptyScript):
		return "Script has no dialogue"
	case errors.Is(err, ErrMissingPathParam),
		errors.Is(err, ErrInvalidPathID):
		return "Invalid job id"
	case errors.Is(err, ErrInvalidRequestBody):
		return "Invalid request format"
	case errors.Is(err, shared.ErrBodyTooLarge):
		return "Request body too large"
	case errors.Is(err, task.ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, task.ErrQueueFull):
		return "Too many pending jobs, try again later"
	case errors.Is(err, task.ErrQueueClosed):
		return "Server is shutting down"
	case errors.Is(err, generation.ErrCancelled):
		return "Request cancelled"
	case errors.Is(err, podcast.ErrInconsistentScript):
		return "The model returned an inconsistent script, please try again"
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return "Script generation failed, please try again"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
