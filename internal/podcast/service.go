package podcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/podscript/internal/generation"
)

// DefaultSpeakers is the cast size when a request names neither a count nor voices.
const DefaultSpeakers = 2

// ErrEmptyContent is returned when there is no source material.
var ErrEmptyContent = errors.New("source content cannot be empty")

// ScriptRequest asks for a script about Content.
type ScriptRequest struct {
	// Content is the source material.
	Content string `json:"content" validate:"required"`

	// NumSpeakers defaults to len(VoiceIDs), or DefaultSpeakers.
	NumSpeakers int `json:"num_speakers" validate:"omitempty,min=1,max=6"`

	// VoiceIDs defaults to DefaultVoices(NumSpeakers).
	VoiceIDs []string `json:"voice_ids"`

	// Model picks the script model for this request only.
	Model string `json:"model,omitempty"`

	// Temperature overrides the configured sampling temperature.
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`

	// SpeechModel picks the text-to-speech model when the script is rendered.
	SpeechModel string `json:"speech_model,omitempty"`
}

// Overrides returns the generation options the request changes.
func (r ScriptRequest) Overrides() generation.Overrides {
	return generation.Overrides{
		ModelName:   strings.TrimSpace(r.Model),
		Temperature: r.Temperature,
	}
}

// Cast returns the speaker count and voice ids the request resolves to.
func (r ScriptRequest) Cast() (int, []string) {
	n := r.NumSpeakers
	voices := normalizeVoices(r.VoiceIDs)
	if n == 0 {
		n = len(voices)
	}
	if n == 0 {
		n = DefaultSpeakers
	}
	if len(voices) == 0 {
		voices = DefaultVoices(n)
	}
	return n, voices
}

// Service generates podcast scripts.
type Service struct {
	generator generation.Generator
	options   *generation.Options
	logger    *slog.Logger
}

// NewService creates a Service. A nil options uses the generator's defaults.
func NewService(generator generation.Generator, options *generation.Options, logger *slog.Logger) (*Service, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Service{generator: generator, options: options, logger: logger}, nil
}

// GenerateScript produces a checked Script for req.
//
// Failures from the generator are returned as-is, so callers can tell
// configuration problems (generation.ErrInvalidConfig), exhausted retries
// (generation.ErrGenerationFailed) and cancellation (generation.ErrCancelled)
// apart. A script that validates but contradicts the cast is reported as
// ErrInconsistentScript.
func (s *Service) GenerateScript(ctx context.Context, req ScriptRequest) (*Script, error) {
	if req.Content == "" {
		return nil, ErrEmptyContent
	}

	numSpeakers, voiceIDs := req.Cast()
	instruction, err := Instruction(numSpeakers, voiceIDs)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Starting podcast script generation",
		"speakers", numSpeakers,
		"voices", voiceIDs,
		"content_length", len(req.Content),
		"model", req.Model)

	result, err := s.generator.Generate(ctx, generation.Request{
		Instruction: instruction,
		Payload:     req.Content,
		Options:     s.options,
		Overrides:   req.Overrides(),
	})
	if err != nil {
		return nil, err
	}
	if !result.Succeeded() {
		s.logger.ErrorContext(ctx, "Podcast script generation failed",
			"outcome", string(result.Outcome),
			"attempts", len(result.Attempts))
		return nil, result.Error()
	}

	var script Script
	if err := result.Decode(&script); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	if err := script.Check(voiceIDs); err != nil {
		s.logger.WarnContext(ctx, "Generated script rejected", "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Podcast script generated successfully",
		"title", script.Title,
		"turns", len(script.Dialogue),
		"attempts", len(result.Attempts))
	return &script, nil
}
