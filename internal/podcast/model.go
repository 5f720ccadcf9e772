package podcast

import (
	"sync"

	"github.com/phrazzld/podscript/internal/schema"
)

var (
	scriptModel     *schema.Model
	scriptModelOnce sync.Once
)

// ScriptModel returns the data model a generated Script must satisfy. The
// same pointer is returned on every call so compiled schemas can be cached.
func ScriptModel() *schema.Model {
	scriptModelOnce.Do(func() {
		scriptModel = &schema.Model{
			Name: "PodcastScript",
			Root: schema.Object("PodcastScript", "A complete podcast episode",
				schema.String("title", "Catchy podcast episode title"),
				schema.String("description", "Short episode description"),
				schema.Array("speakers", "Speakers in the order they first appear in the dialogue",
					schema.Ref("", "Speaker")),
				schema.Array("dialogue", "Ordered list of dialogue turns between speakers",
					schema.Ref("", "DialogueTurn")),
			),
			Defs: map[string]*schema.Field{
				"Speaker": schema.Object("Speaker", "A podcast speaker",
					schema.String("name", "Realistic human name of the speaker"),
					schema.Enum("voice_id", "Voice id assigned to this speaker", VoiceIDs()...),
				),
				"DialogueTurn": schema.Object("DialogueTurn", "One dialogue turn",
					schema.String("speaker", "Name of the speaker, must match a defined speaker"),
					schema.String("text", "What the speaker says in this turn"),
				),
			},
		}
	})
	return scriptModel
}
