package gemini

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/podscript/internal/config"
	"github.com/phrazzld/podscript/internal/generation"
	"github.com/phrazzld/podscript/internal/schema"
	"google.golang.org/genai"
)

// ContentGenerator is the part of the genai Models service the client uses.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Sleeper waits for d or until ctx is done, returning ctx.Err() in the latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

// OptionsFromConfig returns the generation options described by the LLM settings.
func OptionsFromConfig(cfg config.LLMConfig) generation.Options {
	return generation.Options{
		ModelName:             cfg.ModelName,
		Temperature:           cfg.Temperature,
		MaxRetries:            cfg.MaxRetries,
		InitialBackoffSeconds: cfg.InitialBackoffSeconds,
		RequestTimeoutSeconds: cfg.RequestTimeoutSeconds,
	}
}

// ClientOption customizes a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	baseURL    string
	httpClient *http.Client
	models     ContentGenerator
	sleep      Sleeper
	schemas    *schema.Cache
}

// WithBaseURL points the genai client at another endpoint, e.g. a proxy or a
// test server.
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used by the genai client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithContentGenerator replaces the genai client entirely.
func WithContentGenerator(g ContentGenerator) ClientOption {
	return func(o *clientOptions) {
		o.models = g
	}
}

// WithSleeper replaces the timer used between attempts.
func WithSleeper(s Sleeper) ClientOption {
	return func(o *clientOptions) {
		o.sleep = s
	}
}

// WithSchemaCache shares a compiled-schema cache between clients.
func WithSchemaCache(c *schema.Cache) ClientOption {
	return func(o *clientOptions) {
		o.schemas = c
	}
}

// timerSleep is the default Sleeper.
func timerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
