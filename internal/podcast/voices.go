package podcast

import (
	"slices"
	"strings"
)

// Voice is a prebuilt speech voice.
type Voice struct {
	// ID is the lower-case identifier used in scripts, e.g. "kore".
	ID string `json:"id"`

	// Name is the voice name the speech API expects, e.g. "Kore".
	Name string `json:"name"`

	Gender      string `json:"gender"`
	Description string `json:"description"`
}

// String renders the voice as it appears in the system instruction.
func (v Voice) String() string {
	return v.ID + ": " + v.Gender + ", " + v.Description
}

var catalog = []Voice{
	{ID: "zephyr", Name: "Zephyr", Gender: "Female", Description: "Bright and clear tone"},
	{ID: "puck", Name: "Puck", Gender: "Male", Description: "Upbeat and lively"},
	{ID: "charon", Name: "Charon", Gender: "Male", Description: "Informative and precise"},
	{ID: "kore", Name: "Kore", Gender: "Female", Description: "Firm and authoritative"},
	{ID: "fenrir", Name: "Fenrir", Gender: "Male", Description: "Excitable and energetic"},
	{ID: "leda", Name: "Leda", Gender: "Female", Description: "Youthful and fresh"},
	{ID: "orus", Name: "Orus", Gender: "Male", Description: "Firm and commanding"},
	{ID: "aoede", Name: "Aoede", Gender: "Female", Description: "Breezy and relaxed"},
	{ID: "callirrhoe", Name: "Callirrhoe", Gender: "Female", Description: "Easy-going and casual"},
	{ID: "autonoe", Name: "Autonoe", Gender: "Female", Description: "Bright and cheerful"},
	{ID: "enceladus", Name: "Enceladus", Gender: "Male", Description: "Breathy and soft-spoken"},
	{ID: "iapetus", Name: "Iapetus", Gender: "Male", Description: "Clear and articulate"},
	{ID: "umbriel", Name: "Umbriel", Gender: "Male", Description: "Easy-going and friendly"},
	{ID: "algieba", Name: "Algieba", Gender: "Male", Description: "Smooth and polished"},
	{ID: "despina", Name: "Despina", Gender: "Female", Description: "Smooth and elegant"},
	{ID: "erinome", Name: "Erinome", Gender: "Female", Description: "Clear and crisp"},
	{ID: "algenib", Name: "Algenib", Gender: "Male", Description: "Gravelly and rugged"},
	{ID: "rasalgethi", Name: "Rasalgethi", Gender: "Male", Description: "Informative and confident"},
	{ID: "laomedeia", Name: "Laomedeia", Gender: "Female", Description: "Upbeat and positive"},
	{ID: "achernar", Name: "Achernar", Gender: "Female", Description: "Soft and gentle"},
	{ID: "alnilam", Name: "Alnilam", Gender: "Male", Description: "Firm and steady"},
	{ID: "schedar", Name: "Schedar", Gender: "Male", Description: "Even and balanced"},
	{ID: "gacrux", Name: "Gacrux", Gender: "Female", Description: "Mature and wise"},
	{ID: "pulcherrima", Name: "Pulcherrima", Gender: "Male", Description: "Forward and assertive"},
	{ID: "achird", Name: "Achird", Gender: "Male", Description: "Friendly and warm"},
	{ID: "zubenelgenubi", Name: "Zubenelgenubi", Gender: "Male", Description: "Casual and relaxed"},
	{ID: "vindemiatrix", Name: "Vindemiatrix", Gender: "Female", Description: "Gentle and soothing"},
	{ID: "sadachbia", Name: "Sadachbia", Gender: "Male", Description: "Lively and spirited"},
	{ID: "sadaltager", Name: "Sadaltager", Gender: "Male", Description: "Knowledgeable and clear"},
	{ID: "sulafat", Name: "Sulafat", Gender: "Female", Description: "Warm and inviting"},
}

// defaultCast is the order in which voices are handed out when none are chosen.
var defaultCast = []string{"kore", "puck", "charon", "aoede", "fenrir", "leda"}

// Voices returns the catalog in its canonical order.
func Voices() []Voice {
	return slices.Clone(catalog)
}

// VoiceIDs returns the identifiers of every catalog voice.
func VoiceIDs() []string {
	ids := make([]string, len(catalog))
	for i, v := range catalog {
		ids[i] = v.ID
	}
	return ids
}

// LookupVoice finds a voice by identifier, ignoring case.
func LookupVoice(id string) (Voice, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, v := range catalog {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// DefaultVoices returns n distinct voices for a cast with no explicit choice.
func DefaultVoices(n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(defaultCast) {
		n = len(defaultCast)
	}
	return slices.Clone(defaultCast[:n])
}
