package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/podscript/internal/config"
	"github.com/phrazzld/podscript/internal/generation"
	"github.com/phrazzld/podscript/internal/schema"
	"google.golang.org/genai"
)

// Client implements the generation.Generator interface using Google's Gemini API.
// It is safe for concurrent use; the schema cache is its only shared state.
type Client struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// models performs the generateContent calls
	models ContentGenerator

	// sleep waits between attempts
	sleep Sleeper

	// schemas holds one compiled schema per data model
	schemas *schema.Cache
}

var _ generation.Generator = (*Client)(nil)

// NewClient creates a Client from the LLM configuration.
//
// A missing API key or model name is reported as generation.ErrInvalidConfig
// before any network traffic.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, opts ...ClientOption) (*Client, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}

	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	o := clientOptions{sleep: timerSleep}
	for _, opt := range opts {
		opt(&o)
	}
	if o.baseURL == "" {
		o.baseURL = cfg.BaseURL
	}
	if o.schemas == nil {
		o.schemas = schema.NewCache()
	}

	if o.models == nil {
		clientConfig := &genai.ClientConfig{
			APIKey:     cfg.GeminiAPIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: o.httpClient,
		}
		if o.baseURL != "" {
			clientConfig.HTTPOptions.BaseURL = o.baseURL
		}

		client, err := genai.NewClient(ctx, clientConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
				generation.ErrInvalidConfig, err)
		}
		o.models = client.Models
	}

	return &Client{
		logger:  logger,
		config:  cfg,
		models:  o.models,
		sleep:   o.sleep,
		schemas: o.schemas,
	}, nil
}

// Generate implements generation.Generator.
func (c *Client) Generate(ctx context.Context, req generation.Request) (*generation.Result, error) {
	text, model, err := req.Resolve()
	if err != nil {
		return nil, c.rejected(ctx, err)
	}

	opts := OptionsFromConfig(c.config)
	if req.Options != nil {
		opts = *req.Options
	}
	opts = opts.Apply(req.Overrides)
	if err := opts.Validate(); err != nil {
		return nil, c.rejected(ctx, err)
	}

	payload, err := generation.CanonicalizePayload(req.Payload)
	if err != nil {
		return nil, c.rejected(ctx, err)
	}

	compiled, err := c.schemas.Get(model)
	if err != nil {
		return nil, c.rejected(ctx, err)
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: payload}},
	}}
	genConfig := responseConfig(text, compiled.Wire, opts.Temperature)

	c.logger.DebugContext(ctx, "Structured generation request prepared",
		"model", opts.ModelName,
		"data_model", model.Name,
		"instruction_length", len(text),
		"payload_length", len(payload))

	var value map[string]any
	loop := newRetryLoop(c.logger, c.sleep, opts)
	loop.run(ctx, func(attemptCtx context.Context) (string, error) {
		resp, err := c.models.GenerateContent(attemptCtx, opts.ModelName, contents, genConfig)
		if err != nil {
			return "", fmt.Errorf("%w: %w", generation.ErrTransientFailure, err)
		}

		raw, err := candidateText(resp)
		if err != nil {
			return "", err
		}

		value, err = compiled.Validate([]byte(raw))
		return raw, err
	})

	switch loop.state {
	case generation.StateSuccess:
		return generation.Succeed(value, loop.attempts)
	case generation.StateCancelled:
		return generation.Cancel(loop.attempts, loop.cause), nil
	default:
		return generation.Fail(loop.attempts, loop.err()), nil
	}
}

// rejected logs a request problem found before any network call.
func (c *Client) rejected(ctx context.Context, err error) error {
	c.logger.ErrorContext(ctx, "Structured generation request rejected", "error", err)
	return err
}

// responseConfig asks for JSON that follows wire.
func responseConfig(instruction string, wire *genai.Schema, temperature float64) *genai.GenerateContentConfig {
	temp := float32(temperature)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   wire,
	}
}

// candidateText extracts the text of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: candidate has no text", generation.ErrInvalidResponse)
	}
	return b.String(), nil
}

// firstCandidate returns the first candidate, rejecting empty and blocked responses.
func firstCandidate(resp *genai.GenerateContentResponse) (*genai.Candidate, error) {
	switch {
	case resp == nil:
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case len(resp.Candidates) == 0 || resp.Candidates[0] == nil:
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return nil, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0:
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return resp.Candidates[0], nil
}
