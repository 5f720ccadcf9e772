package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// episodeModel builds a small model shaped like a podcast script.
func episodeModel() *Model {
	return &Model{
		Name: "Episode",
		Root: Object("", "An episode",
			String("title", "Episode title"),
			String("description", "Short description"),
			Array("speakers", "Speakers in order of appearance", Ref("", "Speaker")),
			Array("dialogue", "Ordered turns", Ref("", "Turn")),
		),
		Defs: map[string]*Field{
			"Speaker": Object("Speaker", "A speaker",
				String("name", "Speaker name"),
				Enum("voice_id", "Voice", "kore", "puck"),
			),
			"Turn": Object("Turn", "One dialogue turn",
				String("speaker", "Name of the speaker"),
				String("text", "What is said"),
			),
		},
	}
}

func TestTranslate_MapsKindsOrderingAndRequired(t *testing.T) {
	wire, err := Translate(episodeModel())
	require.NoError(t, err)

	assert.Equal(t, genai.TypeObject, wire.Type)
	assert.Equal(t, []string{"title", "description", "speakers", "dialogue"}, wire.PropertyOrdering)
	assert.Equal(t, []string{"title", "description", "speakers", "dialogue"}, wire.Required)

	speakers := wire.Properties["speakers"]
	require.NotNil(t, speakers)
	assert.Equal(t, genai.TypeArray, speakers.Type)
	require.NotNil(t, speakers.Items)
	assert.Equal(t, genai.TypeObject, speakers.Items.Type)
	assert.Equal(t, []string{"name", "voice_id"}, speakers.Items.PropertyOrdering)
	assert.Equal(t, "A speaker", speakers.Items.Description)

	voice := speakers.Items.Properties["voice_id"]
	assert.Equal(t, genai.TypeString, voice.Type)
	assert.Equal(t, "enum", voice.Format)
	assert.Equal(t, []string{"kore", "puck"}, voice.Enum)

	turn := wire.Properties["dialogue"].Items
	assert.Equal(t, []string{"speaker", "text"}, turn.Required)
	assert.Nil(t, turn.Nullable)
}

func TestTranslate_IsDeterministic(t *testing.T) {
	first, err := Translate(episodeModel())
	require.NoError(t, err)
	second, err := Translate(episodeModel())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	for i := 0; i < 20; i++ {
		again, err := Translate(episodeModel())
		require.NoError(t, err)
		c, err := json.Marshal(again)
		require.NoError(t, err)
		require.Equal(t, a, c)
	}
}

func TestTranslate_OptionalRequiredFlagsCarryOver(t *testing.T) {
	m := &Model{Root: Object("", "",
		String("a", ""),
		String("b", "").Optional(),
		Integer("c", ""),
	)}

	wire, err := Translate(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, wire.Required)
	assert.Equal(t, []string{"a", "b", "c"}, wire.PropertyOrdering)
	assert.Equal(t, genai.TypeInteger, wire.Properties["c"].Type)
}

func TestTranslate_Nullable(t *testing.T) {
	m := &Model{Root: Object("", "",
		String("nickname", "Optional nickname").Optional().OrNull(),
		NullableOf("meta", "Optional metadata", Object("", "Metadata",
			Number("score", "Score"),
			Boolean("explicit", "Explicit content"),
		)),
	)}

	wire, err := Translate(m)
	require.NoError(t, err)

	nickname := wire.Properties["nickname"]
	require.NotNil(t, nickname.Nullable)
	assert.True(t, *nickname.Nullable)
	assert.Equal(t, genai.TypeString, nickname.Type)

	meta := wire.Properties["meta"]
	require.NotNil(t, meta.Nullable)
	assert.True(t, *meta.Nullable)
	assert.Equal(t, genai.TypeObject, meta.Type)
	assert.Equal(t, "Optional metadata", meta.Description)
	assert.Equal(t, []string{"score", "explicit"}, meta.PropertyOrdering)
	assert.Equal(t, genai.TypeNumber, meta.Properties["score"].Type)
	assert.Equal(t, genai.TypeBoolean, meta.Properties["explicit"].Type)

	// Neither optional field is listed as required.
	assert.Equal(t, []string(nil), wire.Required)
}

func TestTranslate_NullableWrapperAroundRef(t *testing.T) {
	m := &Model{
		Root: Object("", "",
			NullableOf("host", "", Ref("", "Person")),
		),
		Defs: map[string]*Field{
			"Person": Object("Person", "A person", String("name", "")),
		},
	}

	wire, err := Translate(m)
	require.NoError(t, err)
	host := wire.Properties["host"]
	require.NotNil(t, host.Nullable)
	assert.True(t, *host.Nullable)
	assert.Equal(t, "A person", host.Description)
	assert.Equal(t, []string{"name"}, host.Required)
}

func TestTranslate_AllOfDeepMerges(t *testing.T) {
	m := &Model{
		Root: Object("", "",
			AllOf("guest", "A guest", Ref("", "Base"), Object("", "",
				String("bio", "Biography"),
				Object("links", "", String("site", "")),
			)),
		),
		Defs: map[string]*Field{
			"Base": Object("Base", "Base person",
				String("name", ""),
				Object("links", "", String("social", "").Optional()),
			),
		},
	}

	wire, err := Translate(m)
	require.NoError(t, err)

	guest := wire.Properties["guest"]
	assert.Equal(t, genai.TypeObject, guest.Type)
	assert.Equal(t, "A guest", guest.Description)
	assert.Equal(t, []string{"name", "links", "bio"}, guest.PropertyOrdering)
	assert.Equal(t, []string{"name", "links", "bio"}, guest.Required)

	links := guest.Properties["links"]
	assert.Equal(t, []string{"social", "site"}, links.PropertyOrdering)
	assert.Equal(t, []string{"site"}, links.Required)
}

func TestTranslate_Errors(t *testing.T) {
	selfContaining := Array("loop", "", nil)
	selfContaining.Items = selfContaining

	tests := []struct {
		name    string
		model   *Model
		wantErr error
	}{
		{
			name:    "nil_model",
			model:   nil,
			wantErr: ErrInvalidField,
		},
		{
			name:    "root_not_object",
			model:   &Model{Root: String("x", "")},
			wantErr: ErrInvalidField,
		},
		{
			name:    "unknown_kind",
			model:   &Model{Root: Object("", "", &Field{Name: "when", Kind: "datetime"})},
			wantErr: ErrUnsupportedKind,
		},
		{
			name:    "missing_kind",
			model:   &Model{Root: Object("", "", &Field{Name: "x"})},
			wantErr: ErrInvalidField,
		},
		{
			name:    "array_without_items",
			model:   &Model{Root: Object("", "", Array("xs", "", nil))},
			wantErr: ErrInvalidField,
		},
		{
			name:    "duplicate_property",
			model:   &Model{Root: Object("", "", String("a", ""), Integer("a", ""))},
			wantErr: ErrInvalidField,
		},
		{
			name:    "enum_without_values",
			model:   &Model{Root: Object("", "", Enum("mood", ""))},
			wantErr: ErrInvalidField,
		},
		{
			name:    "unknown_ref",
			model:   &Model{Root: Object("", "", Ref("x", "Missing"))},
			wantErr: ErrUnknownRef,
		},
		{
			name: "three_branch_union",
			model: &Model{Root: Object("", "", &Field{
				Name:  "x",
				AnyOf: []*Field{String("", ""), Integer("", ""), Null()},
			})},
			wantErr: ErrUnsupportedUnion,
		},
		{
			name: "union_without_null",
			model: &Model{Root: Object("", "", &Field{
				Name:  "x",
				AnyOf: []*Field{String("", ""), Integer("", "")},
			})},
			wantErr: ErrUnsupportedUnion,
		},
		{
			name:    "bare_null",
			model:   &Model{Root: Object("", "", &Field{Name: "x", Kind: KindNull})},
			wantErr: ErrUnsupportedUnion,
		},
		{
			name: "allof_kind_conflict",
			model: &Model{Root: Object("", "",
				AllOf("x", "", String("", ""), Integer("", "")),
			)},
			wantErr: ErrInvalidField,
		},
		{
			name:    "self_containing_field",
			model:   &Model{Root: Object("", "", selfContaining)},
			wantErr: ErrReferenceCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := Translate(tt.model)
			require.Error(t, err)
			assert.Nil(t, wire)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrTranslation)
		})
	}
}

func TestTranslate_ReferenceCycles(t *testing.T) {
	tests := []struct {
		name  string
		model *Model
	}{
		{
			name: "direct_self_reference",
			model: &Model{
				Root: Object("", "", Ref("node", "Node")),
				Defs: map[string]*Field{
					"Node": Object("Node", "", String("label", ""), Array("children", "", Ref("", "Node"))),
				},
			},
		},
		{
			name: "mutual_reference",
			model: &Model{
				Root: Object("", "", Ref("a", "A")),
				Defs: map[string]*Field{
					"A": Object("A", "", Ref("b", "B")),
					"B": Object("B", "", NullableOf("a", "", Ref("", "A"))),
				},
			},
		},
		{
			name: "cycle_through_allof",
			model: &Model{
				Root: Object("", "", Ref("x", "X")),
				Defs: map[string]*Field{
					"X": AllOf("X", "", Ref("", "Y")),
					"Y": AllOf("Y", "", Ref("", "X")),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Translate(tt.model)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrReferenceCycle)
			assert.ErrorIs(t, err, ErrTranslation)
		})
	}
}

func TestResolve_DoesNotShareFieldsWithModel(t *testing.T) {
	m := episodeModel()
	root, err := Resolve(m)
	require.NoError(t, err)

	root.Properties[0].Name = "changed"
	assert.Equal(t, "title", m.Root.Properties[0].Name)
	assert.Equal(t, KindRef, m.Root.Properties[2].Items.Kind)
}
