package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/podscript/internal/generation"
)

// attemptFunc performs one network attempt. It returns the raw candidate text
// (if any) and nil on success.
type attemptFunc func(ctx context.Context) (string, error)

// retryLoop drives the generation state machine for one logical call.
// Only the backoff state suspends.
type retryLoop struct {
	logger *slog.Logger
	sleep  Sleeper
	opts   generation.Options

	state    generation.State
	attempts []generation.Attempt
	lastErr  error
	lastRaw  string
	cause    error
}

func newRetryLoop(logger *slog.Logger, sleep Sleeper, opts generation.Options) *retryLoop {
	return &retryLoop{
		logger: logger,
		sleep:  sleep,
		opts:   opts,
		state:  generation.StatePending,
	}
}

// moveTo advances the machine. An illegal transition is a programming error
// and is logged rather than acted on.
func (l *retryLoop) moveTo(ctx context.Context, next generation.State) {
	s, err := l.state.To(next)
	if err != nil {
		l.logger.ErrorContext(ctx, "Retry loop state error", "error", err)
		return
	}
	l.state = s
}

// run executes call until it succeeds, the attempts run out, or ctx ends.
// Each attempt runs under its own timeout on a context that is not cancelled
// with ctx, so a call already on the wire is allowed to finish.
func (l *retryLoop) run(ctx context.Context, call attemptFunc) {
	maxAttempts := l.opts.MaxAttempts()

	for k := 0; k < maxAttempts; k++ {
		delay := l.opts.BackoffBefore(k)

		if k > 0 {
			l.moveTo(ctx, generation.StateBackoff)
			l.logger.WarnContext(ctx, "Gemini API call failed, retrying",
				"attempt", k,
				"max_attempts", maxAttempts,
				"model", l.opts.ModelName,
				"delay_seconds", delay.Seconds(),
				"error", l.lastErr)

			if err := l.sleep(ctx, delay); err != nil {
				l.cancel(ctx, err)
				return
			}
		}

		if err := ctx.Err(); err != nil {
			l.cancel(ctx, err)
			return
		}

		l.moveTo(ctx, generation.StateAttempting)
		l.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", k+1,
			"max_attempts", maxAttempts,
			"model", l.opts.ModelName)

		attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.opts.RequestTimeout())
		raw, err := call(attemptCtx)
		cancel()

		attempt := generation.Attempt{Index: k, Backoff: delay, RawText: raw, Err: err}
		if err == nil {
			attempt.Outcome = generation.AttemptSuccess
			l.attempts = append(l.attempts, attempt)
			l.moveTo(ctx, generation.StateSuccess)
			l.logger.InfoContext(ctx, "Gemini API call successful",
				"attempt", k+1,
				"outcome", string(attempt.Outcome))
			return
		}

		l.lastErr = err
		l.lastRaw = raw

		attempt.Outcome = generation.AttemptRetryable
		if !generation.IsRetryable(err) {
			attempt.Outcome = generation.AttemptFatal
		}
		l.attempts = append(l.attempts, attempt)

		if attempt.Outcome == generation.AttemptFatal || k == maxAttempts-1 {
			l.fail(ctx, attempt.Outcome)
			return
		}
	}
}

func (l *retryLoop) cancel(ctx context.Context, cause error) {
	l.moveTo(ctx, generation.StateCancelled)
	l.cause = cause
	l.logger.WarnContext(ctx, "Structured generation cancelled",
		"attempts", len(l.attempts),
		"model", l.opts.ModelName,
		"error", cause)
}

// fail ends the loop; last is the outcome of the final attempt, retryable
// when the budget ran out and fatal when the error cannot be retried.
func (l *retryLoop) fail(ctx context.Context, last generation.AttemptOutcome) {
	l.moveTo(ctx, generation.StateFailed)
	l.logger.ErrorContext(ctx, "Structured generation failed",
		"attempts", len(l.attempts),
		"max_attempts", l.opts.MaxAttempts(),
		"model", l.opts.ModelName,
		"outcome", string(last),
		"error", l.lastErr)

	if errors.Is(l.lastErr, generation.ErrValidation) {
		l.logger.ErrorContext(ctx, "Raw response rejected by validation",
			"model", l.opts.ModelName,
			"raw_text", l.lastRaw)
	}
}

// err returns the terminal error of a failed or cancelled loop.
func (l *retryLoop) err() error {
	switch l.state {
	case generation.StateFailed:
		return fmt.Errorf("%w after %d attempts: %w", generation.ErrGenerationFailed, len(l.attempts), l.lastErr)
	case generation.StateCancelled:
		return fmt.Errorf("%w: %v", generation.ErrCancelled, l.cause)
	default:
		return nil
	}
}
