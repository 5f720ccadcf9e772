package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/podscript/internal/api/shared"
)

// Path parameter errors
var (
	ErrMissingPathParam = errors.New("path parameter is required")
	ErrInvalidPathID    = errors.New("path parameter is not a valid id")
)

// ErrInvalidRequestBody is returned when a request body cannot be decoded.
var ErrInvalidRequestBody = errors.New("invalid request body")

// decodeAndValidate reads the JSON body into v and validates it.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		if errors.Is(err, shared.ErrBodyTooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequestBody, err)
	}
	return shared.ValidateRequest(v)
}

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, ErrMissingPathParam
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, ErrInvalidPathID
	}
	return id, nil
}
