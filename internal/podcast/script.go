package podcast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors returned by the podcast package.
var (
	// ErrInconsistentScript is returned when a generated script contradicts itself
	// or the requested cast.
	ErrInconsistentScript = errors.New("generated script is inconsistent")

	// ErrInvalidCast is returned when the requested speakers or voices cannot be used.
	ErrInvalidCast = errors.New("invalid speaker cast")

	// ErrUnknownVoice is returned for a voice id that is not in the catalog.
	ErrUnknownVoice = fmt.Errorf("%w: unknown voice", ErrInvalidCast)
)

// Speaker is a named participant with an assigned voice.
type Speaker struct {
	Name    string `json:"name" validate:"required"`
	VoiceID string `json:"voice_id" validate:"required"`
}

// DialogueTurn is one thing one speaker says.
type DialogueTurn struct {
	Speaker string `json:"speaker" validate:"required"`
	Text    string `json:"text" validate:"required"`
}

// Script is a complete podcast episode.
type Script struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Speakers    []Speaker      `json:"speakers" validate:"required,min=1,dive"`
	Dialogue    []DialogueTurn `json:"dialogue" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Check verifies the script against itself and against the requested voices:
// speaker names are unique, every turn names a declared speaker, and each
// requested voice is assigned to exactly one speaker. A nil voiceIDs skips
// the cast comparison.
func (s *Script) Check(voiceIDs []string) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInconsistentScript, err)
	}

	declared := make(map[string]bool, len(s.Speakers))
	for _, sp := range s.Speakers {
		if declared[sp.Name] {
			return fmt.Errorf("%w: speaker %q declared twice", ErrInconsistentScript, sp.Name)
		}
		declared[sp.Name] = true

		if _, ok := LookupVoice(sp.VoiceID); !ok {
			return fmt.Errorf("%w: speaker %q has unknown voice %q", ErrInconsistentScript, sp.Name, sp.VoiceID)
		}
	}

	for i, turn := range s.Dialogue {
		if !declared[turn.Speaker] {
			return fmt.Errorf("%w: turn %d is spoken by undeclared speaker %q", ErrInconsistentScript, i, turn.Speaker)
		}
	}

	if voiceIDs == nil {
		return nil
	}
	if len(s.Speakers) != len(voiceIDs) {
		return fmt.Errorf("%w: expected %d speakers, got %d", ErrInconsistentScript, len(voiceIDs), len(s.Speakers))
	}
	remaining := make(map[string]int, len(voiceIDs))
	for _, id := range voiceIDs {
		remaining[strings.ToLower(id)]++
	}
	for _, sp := range s.Speakers {
		id := strings.ToLower(sp.VoiceID)
		if remaining[id] == 0 {
			return fmt.Errorf("%w: speaker %q uses voice %q which was not requested", ErrInconsistentScript, sp.Name, sp.VoiceID)
		}
		remaining[id]--
	}
	return nil
}

// VoiceMap maps each speaker name to its voice id.
func (s *Script) VoiceMap() map[string]string {
	m := make(map[string]string, len(s.Speakers))
	for _, sp := range s.Speakers {
		m[sp.Name] = sp.VoiceID
	}
	return m
}
