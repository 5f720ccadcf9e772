package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/podscript/internal/audio"
	"github.com/phrazzld/podscript/internal/generation"
	"google.golang.org/genai"
)

const speechPrompt = "Convert the following text into natural podcast speech.\n\nSpeaker: %s\nText: %s"

// Speaker implements audio.Synthesizer with a Gemini text-to-speech model.
// Each utterance is spoken by one prebuilt voice and returned as raw
// 16-bit little-endian mono PCM.
type Speaker struct {
	logger *slog.Logger
	models ContentGenerator
	sleep  Sleeper
	opts   generation.Options
}

var _ audio.Synthesizer = (*Speaker)(nil)

// Speaker returns a Synthesizer that shares the client's connection and retry
// settings but targets modelName.
func (c *Client) Speaker(modelName string) *Speaker {
	opts := OptionsFromConfig(c.config)
	opts.ModelName = modelName

	return &Speaker{
		logger: c.logger.With("component", "speaker"),
		models: c.models,
		sleep:  c.sleep,
		opts:   opts,
	}
}

// Synthesize implements audio.Synthesizer.
func (s *Speaker) Synthesize(ctx context.Context, u audio.Utterance) ([]byte, error) {
	if strings.TrimSpace(u.Text) == "" {
		return nil, fmt.Errorf("%w: utterance text cannot be empty", generation.ErrInvalidConfig)
	}
	if u.VoiceID == "" {
		return nil, fmt.Errorf("%w: voice cannot be empty", generation.ErrInvalidConfig)
	}
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: fmt.Sprintf(speechPrompt, u.Speaker, u.Text)}},
	}}
	speechConfig := &genai.GenerateContentConfig{
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: u.VoiceID},
			},
		},
	}
	speechConfig.ResponseModalities = append(speechConfig.ResponseModalities, "AUDIO")

	var pcm []byte
	loop := newRetryLoop(s.logger, s.sleep, s.opts)
	loop.run(ctx, func(attemptCtx context.Context) (string, error) {
		resp, err := s.models.GenerateContent(attemptCtx, s.opts.ModelName, contents, speechConfig)
		if err != nil {
			return "", fmt.Errorf("%w: %w", generation.ErrTransientFailure, err)
		}

		pcm, err = audioData(resp)
		return "", err
	})

	if loop.state != generation.StateSuccess {
		return nil, loop.err()
	}

	s.logger.DebugContext(ctx, "Utterance synthesized",
		"speaker", u.Speaker,
		"voice", u.VoiceID,
		"pcm_bytes", len(pcm))
	return pcm, nil
}

// audioData concatenates the inline audio of the first candidate.
func audioData(resp *genai.GenerateContentResponse) ([]byte, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return nil, err
	}

	var pcm []byte
	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}

	if len(pcm) == 0 {
		return nil, ErrNoAudio
	}
	return pcm, nil
}
