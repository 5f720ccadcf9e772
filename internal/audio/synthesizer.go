package audio

import (
	"context"
	"errors"
)

// Utterance is one line of dialogue to be spoken.
type Utterance struct {
	Speaker string
	Text    string
	VoiceID string
}

// Synthesizer converts an utterance to raw 16-bit little-endian mono PCM.
// Concrete implementations wrap a hosted text-to-speech model.
type Synthesizer interface {
	Synthesize(ctx context.Context, u Utterance) ([]byte, error)
}

// Errors returned by the audio package.
var (
	// ErrUnknownSpeaker is returned when a turn's speaker has no voice.
	ErrUnknownSpeaker = errors.New("speaker has no assigned voice")

	// ErrOddPCM is returned when PCM data does not hold whole 16-bit samples.
	ErrOddPCM = errors.New("pcm data has an odd number of bytes")

	// ErrEmptyScript is returned when there is nothing to render.
	ErrEmptyScript = errors.New("script has no dialogue")
)
