package generation

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default option values.
const (
	DefaultTemperature           = 0.7
	DefaultMaxRetries            = 2
	DefaultInitialBackoffSeconds = 2.0
	DefaultRequestTimeoutSeconds = 300
)

var validate = validator.New()

// Options tunes a single generation call.
type Options struct {
	// ModelName is the backend model identifier, e.g. "gemini-2.5-pro".
	ModelName string `validate:"required"`

	// Temperature controls sampling creativity.
	Temperature float64 `validate:"gte=0,lte=1"`

	// MaxRetries is the number of attempts made after the first one.
	MaxRetries int `validate:"gte=0"`

	// InitialBackoffSeconds is the base of the exponential backoff: the wait
	// before attempt k (k >= 1) is InitialBackoffSeconds^(k-1) seconds.
	InitialBackoffSeconds float64 `validate:"gt=0"`

	// RequestTimeoutSeconds bounds each network attempt.
	RequestTimeoutSeconds float64 `validate:"gt=0"`
}

// DefaultOptions returns Options for modelName with the package defaults.
func DefaultOptions(modelName string) Options {
	return Options{
		ModelName:             modelName,
		Temperature:           DefaultTemperature,
		MaxRetries:            DefaultMaxRetries,
		InitialBackoffSeconds: DefaultInitialBackoffSeconds,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
	}
}

// Overrides replaces selected Options fields for one call. Zero fields keep
// the base value.
type Overrides struct {
	ModelName   string
	Temperature *float64
}

// Apply returns o with the fields set in ov replacing its own.
func (o Options) Apply(ov Overrides) Options {
	if ov.ModelName != "" {
		o.ModelName = ov.ModelName
	}
	if ov.Temperature != nil {
		o.Temperature = *ov.Temperature
	}
	return o
}

// Validate checks o, wrapping any problem in ErrInvalidConfig.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// MaxAttempts is the total number of attempts o allows.
func (o Options) MaxAttempts() int {
	return o.MaxRetries + 1
}

// RequestTimeout returns the per-attempt timeout.
func (o Options) RequestTimeout() time.Duration {
	return seconds(o.RequestTimeoutSeconds)
}

// BackoffBefore returns the wait that precedes attempt k (0-indexed).
// The first attempt is never delayed.
func (o Options) BackoffBefore(k int) time.Duration {
	if k <= 0 {
		return 0
	}
	return seconds(math.Pow(o.InitialBackoffSeconds, float64(k-1)))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
