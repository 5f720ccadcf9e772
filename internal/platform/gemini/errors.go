package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNilLogger is returned when a constructor is given no logger.
	ErrNilLogger = errors.New("logger cannot be nil")

	// ErrNoAudio is returned when a speech response carries no audio data.
	ErrNoAudio = errors.New("speech response contained no audio")
)
