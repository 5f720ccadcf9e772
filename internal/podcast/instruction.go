package podcast

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/podscript/internal/generation"
)

// Speaker count limits.
const (
	MinSpeakers = 1
	MaxSpeakers = 6
)

const instructionText = `You are a senior podcast writer and audio storyteller.

You turn complex or technical source material into clear, engaging and
professional podcast conversations written for listening.

Aim for quality above all: natural speech, strong pacing, clear explanations
and a polished sound.

SPEAKERS AND VOICES

Use exactly {{.NumSpeakers}} speaker{{if gt .NumSpeakers 1}}s{{end}}.

These voice ids are provided in order, each with its properties:

{{range .Voices}}- {{.}}
{{end}}
Let the voice properties guide each speaker's human name, role (host, co-host,
guest, expert, analyst) and tone. Voice ids are internal only: never use them
as speaker names and never mention them in the dialogue.

WRITING

Write for the ear, not the page. Prefer short-to-medium sentences, allow light
interruptions and follow-ups, and let curiosity drive the conversation. Respect
the listener's intelligence: slow down for important ideas, move quickly
through simple ones, and use examples or brief stories where they help.

FLOW

Open with a natural hook, let the discussion unfold logically, build toward an
insight, and close with a takeaway, reflection or open question.

SPEAKER ORDER

List speakers in the speakers array in the order they first appear in the
dialogue. Each speaker appears in the list once, with the voice_id assigned
to them.

OUTPUT

Follow the PodcastScript JSON schema: title, description, speakers (name and
voice_id) and dialogue (speaker and text). Output only valid JSON with no
markdown or commentary.
`

var instructionTemplate = template.Must(template.New("podcast").Parse(instructionText))

type instructionData struct {
	NumSpeakers int
	Voices      []Voice
}

// Instruction renders the system instruction for a cast of numSpeakers using
// voiceIDs in order. The returned instruction carries ScriptModel.
func Instruction(numSpeakers int, voiceIDs []string) (generation.TemplatedInstruction, error) {
	voices, err := castVoices(numSpeakers, voiceIDs)
	if err != nil {
		return generation.TemplatedInstruction{}, err
	}

	var buf bytes.Buffer
	data := instructionData{NumSpeakers: numSpeakers, Voices: voices}
	if err := instructionTemplate.Execute(&buf, data); err != nil {
		return generation.TemplatedInstruction{}, fmt.Errorf("failed to execute instruction template: %w", err)
	}

	return generation.Templated(buf.String(), ScriptModel()), nil
}

// castVoices resolves and checks the requested voices.
func castVoices(numSpeakers int, voiceIDs []string) ([]Voice, error) {
	if numSpeakers < MinSpeakers || numSpeakers > MaxSpeakers {
		return nil, fmt.Errorf("%w: speaker count must be between %d and %d, got %d",
			ErrInvalidCast, MinSpeakers, MaxSpeakers, numSpeakers)
	}
	if len(voiceIDs) != numSpeakers {
		return nil, fmt.Errorf("%w: %d voices for %d speakers", ErrInvalidCast, len(voiceIDs), numSpeakers)
	}

	seen := make(map[string]bool, len(voiceIDs))
	voices := make([]Voice, 0, len(voiceIDs))
	for _, id := range voiceIDs {
		v, ok := LookupVoice(id)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownVoice, id)
		}
		if seen[v.ID] {
			return nil, fmt.Errorf("%w: voice %q assigned twice", ErrInvalidCast, v.ID)
		}
		seen[v.ID] = true
		voices = append(voices, v)
	}
	return voices, nil
}

// normalizeVoices lower-cases and trims voice ids.
func normalizeVoices(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strings.ToLower(strings.TrimSpace(id))
	}
	return out
}
