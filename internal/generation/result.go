package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Outcome is the terminal state of a generation call.
type Outcome string

// Possible outcomes
const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// AttemptOutcome classifies a single network attempt.
type AttemptOutcome string

// Possible attempt outcomes
const (
	// AttemptSuccess produced a validated object.
	AttemptSuccess AttemptOutcome = "success"

	// AttemptRetryable failed with an error worth retrying. It is the last
	// attempt only when the retry budget ran out.
	AttemptRetryable AttemptOutcome = "retryable"

	// AttemptFatal failed with an error that cannot be retried.
	AttemptFatal AttemptOutcome = "fatal"
)

// Attempt records one trip to the generation endpoint.
type Attempt struct {
	// Index is 0 for the first attempt.
	Index int

	// Backoff is how long the call waited before this attempt.
	Backoff time.Duration

	// RawText is the candidate text returned by the model, if any.
	RawText string

	// Outcome classifies the attempt.
	Outcome AttemptOutcome

	// Err is the failure, nil on success.
	Err error
}

// Result is what a Generator hands back for a request.
type Result struct {
	// Outcome is the terminal state.
	Outcome Outcome

	// Value holds the validated object with undeclared fields removed.
	// Nil unless Outcome is OutcomeSucceeded.
	Value map[string]any

	// Raw is Value serialized as JSON.
	Raw json.RawMessage

	// Attempts lists every attempt in order.
	Attempts []Attempt

	// Err explains a failed or cancelled result.
	Err error
}

// Succeeded reports whether r carries a validated object.
func (r *Result) Succeeded() bool {
	return r != nil && r.Outcome == OutcomeSucceeded
}

// Cancelled reports whether the caller abandoned the call.
func (r *Result) Cancelled() bool {
	return r != nil && r.Outcome == OutcomeCancelled
}

// LastAttempt returns the final attempt, or false if none was made.
func (r *Result) LastAttempt() (Attempt, bool) {
	if r == nil || len(r.Attempts) == 0 {
		return Attempt{}, false
	}
	return r.Attempts[len(r.Attempts)-1], true
}

// Decode unmarshals the validated object into v.
func (r *Result) Decode(v any) error {
	if !r.Succeeded() {
		return r.Error()
	}
	return json.Unmarshal(r.Raw, v)
}

// Error returns the terminal error of an unsuccessful result, nil otherwise.
// Failed results match ErrGenerationFailed and cancelled ones ErrCancelled.
func (r *Result) Error() error {
	switch {
	case r == nil:
		return ErrGenerationFailed
	case r.Outcome == OutcomeSucceeded:
		return nil
	case r.Outcome == OutcomeCancelled:
		if errors.Is(r.Err, ErrCancelled) {
			return r.Err
		}
		return fmt.Errorf("%w: %v", ErrCancelled, r.Err)
	default:
		if errors.Is(r.Err, ErrGenerationFailed) {
			return r.Err
		}
		return fmt.Errorf("%w: %v", ErrGenerationFailed, r.Err)
	}
}

// Succeed builds a successful result.
func Succeed(value map[string]any, attempts []Attempt) (*Result, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode validated value: %w", err)
	}
	return &Result{
		Outcome:  OutcomeSucceeded,
		Value:    value,
		Raw:      raw,
		Attempts: attempts,
	}, nil
}

// Fail builds a result for an exhausted retry budget.
func Fail(attempts []Attempt, err error) *Result {
	return &Result{Outcome: OutcomeFailed, Attempts: attempts, Err: err}
}

// Cancel builds a result for a call abandoned by its caller.
func Cancel(attempts []Attempt, cause error) *Result {
	return &Result{
		Outcome:  OutcomeCancelled,
		Attempts: attempts,
		Err:      fmt.Errorf("%w: %v", ErrCancelled, cause),
	}
}
