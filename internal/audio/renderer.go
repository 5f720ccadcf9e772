package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/podscript/internal/podcast"
)

// Renderer turns a script into one WAV file, one synthesized clip per turn.
type Renderer struct {
	synth      Synthesizer
	sampleRate int
	logger     *slog.Logger
}

// NewRenderer creates a Renderer. A non-positive sampleRate selects DefaultSampleRate.
func NewRenderer(synth Synthesizer, sampleRate int, logger *slog.Logger) *Renderer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{synth: synth, sampleRate: sampleRate, logger: logger}
}

// Utterances pairs every dialogue turn with the speech API name of its
// speaker's voice, in order.
func Utterances(script *podcast.Script) ([]Utterance, error) {
	if script == nil || len(script.Dialogue) == 0 {
		return nil, ErrEmptyScript
	}

	voices := script.VoiceMap()
	out := make([]Utterance, 0, len(script.Dialogue))
	for i, turn := range script.Dialogue {
		id, ok := voices[turn.Speaker]
		if !ok {
			return nil, fmt.Errorf("%w: turn %d speaker %q", ErrUnknownSpeaker, i, turn.Speaker)
		}
		voice, ok := podcast.LookupVoice(id)
		if !ok {
			return nil, fmt.Errorf("%w: speaker %q has unknown voice %q", ErrUnknownSpeaker, turn.Speaker, id)
		}
		out = append(out, Utterance{Speaker: turn.Speaker, Text: turn.Text, VoiceID: voice.Name})
	}
	return out, nil
}

// Render synthesizes every turn in order and writes the joined audio to w.
// Nothing is written unless every turn synthesizes.
func (r *Renderer) Render(ctx context.Context, script *podcast.Script, w io.WriteSeeker) error {
	utterances, err := Utterances(script)
	if err != nil {
		return err
	}

	var pcm []byte
	for i, u := range utterances {
		clip, err := r.synth.Synthesize(ctx, u)
		if err != nil {
			return fmt.Errorf("failed to synthesize turn %d: %w", i, err)
		}
		if len(clip)%2 != 0 {
			return fmt.Errorf("turn %d: %w", i, ErrOddPCM)
		}
		pcm = append(pcm, clip...)

		r.logger.DebugContext(ctx, "Turn synthesized",
			"turn", i,
			"speaker", u.Speaker,
			"pcm_bytes", len(clip))
	}

	if err := WriteWAV(w, pcm, r.sampleRate); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "Podcast audio rendered",
		"turns", len(utterances),
		"seconds", float64(len(pcm)/2)/float64(r.sampleRate))
	return nil
}
