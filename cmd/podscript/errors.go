package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/podscript/internal/generation"
	"github.com/phrazzld/podscript/internal/podcast"
	"github.com/phrazzld/podscript/internal/redact"
	"github.com/spf13/cobra"
)

// Exit code constants for the CLI
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitError indicates a general error
	ExitError = 1
	// ExitGenerationFailed indicates the model never produced a usable script
	ExitGenerationFailed = 2
	// ExitUsage indicates invalid flags or input
	ExitUsage = 3
	// ExitCancelled indicates the operation was cancelled
	ExitCancelled = 4
	// ExitConfigError indicates a configuration error
	ExitConfigError = 10
)

// CLIError represents a CLI-specific error with an exit code
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WrapError creates a new CLIError wrapping an existing error
func WrapError(code int, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Cause: err}
}

// HandleError prints err to the command's error output and returns the exit code.
func HandleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitSuccess
	}

	code := exitCode(err)
	switch code {
	case ExitCancelled:
		cmd.PrintErrln("Operation cancelled")
	default:
		cmd.PrintErrln("Error:", redact.Error(err))
	}
	return code
}

func exitCode(err error) int {
	var cliErr *CLIError
	switch {
	case errors.As(err, &cliErr):
		return cliErr.Code
	case errors.Is(err, context.Canceled), errors.Is(err, generation.ErrCancelled):
		return ExitCancelled
	case errors.Is(err, podcast.ErrInvalidCast), errors.Is(err, podcast.ErrEmptyContent):
		return ExitUsage
	case errors.Is(err, generation.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, podcast.ErrInconsistentScript):
		return ExitGenerationFailed
	default:
		return ExitError
	}
}
