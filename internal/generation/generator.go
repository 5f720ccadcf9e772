package generation

import (
	"context"
)

// Generator defines the interface for schema-constrained generation.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Generator interface {
	// Generate runs one structured generation request to completion.
	//
	// The returned error is non-nil only for configuration and translation
	// problems detected before any network call. Every other outcome,
	// including exhausted retries and cancellation, is described by the Result.
	Generate(ctx context.Context, req Request) (*Result, error)
}
