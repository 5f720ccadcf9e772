package schema

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileEpisode(t *testing.T) *Compiled {
	t.Helper()
	c, err := Compile(episodeModel())
	require.NoError(t, err)
	return c
}

func TestValidate_AcceptsConformingDocument(t *testing.T) {
	c := compileEpisode(t)

	raw := `{
		"title": "Blogging 101",
		"description": "How to start",
		"speakers": [{"name": "Ana", "voice_id": "kore"}, {"name": "Ben", "voice_id": "puck"}],
		"dialogue": [
			{"speaker": "Ana", "text": "Welcome."},
			{"speaker": "Ben", "text": "Thanks."},
			{"speaker": "Ana", "text": "Let's start."}
		]
	}`

	obj, err := c.Validate([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Blogging 101", obj["title"])

	dialogue, ok := obj["dialogue"].([]any)
	require.True(t, ok)
	require.Len(t, dialogue, 3)
	assert.Equal(t, "Let's start.", dialogue[2].(map[string]any)["text"])
}

func TestValidate_DropsUnknownFields(t *testing.T) {
	c := compileEpisode(t)

	raw := `{
		"title": "T", "description": "D", "mood": "cheerful",
		"speakers": [{"name": "Ana", "voice_id": "kore", "age": 30}],
		"dialogue": [{"speaker": "Ana", "text": "Hi", "emotion": "happy"}]
	}`

	obj, err := c.Validate([]byte(raw))
	require.NoError(t, err)
	assert.NotContains(t, obj, "mood")

	speaker := obj["speakers"].([]any)[0].(map[string]any)
	assert.NotContains(t, speaker, "age")
	turn := obj["dialogue"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"speaker": "Ana", "text": "Hi"}, turn)
}

func TestValidate_Rejections(t *testing.T) {
	c := compileEpisode(t)

	tests := []struct {
		name     string
		raw      string
		contains string
	}{
		{
			name:     "missing_required_field",
			raw:      `{"title": "T", "speakers": [], "dialogue": []}`,
			contains: "$.description: missing required field",
		},
		{
			name:     "missing_nested_field",
			raw:      `{"title": "T", "description": "D", "speakers": [], "dialogue": [{"speaker": "A"}]}`,
			contains: "$.dialogue[0].text",
		},
		{
			name:     "wrong_type",
			raw:      `{"title": 3, "description": "D", "speakers": [], "dialogue": []}`,
			contains: "expected string, got number",
		},
		{
			name:     "null_not_allowed",
			raw:      `{"title": null, "description": "D", "speakers": [], "dialogue": []}`,
			contains: "must not be null",
		},
		{
			name:     "enum_mismatch",
			raw:      `{"title": "T", "description": "D", "speakers": [{"name": "A", "voice_id": "zeus"}], "dialogue": []}`,
			contains: "is not one of",
		},
		{
			name:     "not_json",
			raw:      `Here is your podcast: {"title": "T"}`,
			contains: "not valid JSON",
		},
		{
			name:     "trailing_content",
			raw:      `{"title": "T", "description": "D", "speakers": [], "dialogue": []} extra`,
			contains: "after JSON document",
		},
		{
			name:     "array_instead_of_object",
			raw:      `[]`,
			contains: "expected object, got array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := c.Validate([]byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, obj)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidate_NumbersAndNullables(t *testing.T) {
	c, err := Compile(&Model{Root: Object("", "",
		Integer("count", ""),
		Number("ratio", ""),
		String("note", "").Optional().OrNull(),
		Boolean("live", "").Optional(),
	)})
	require.NoError(t, err)

	obj, err := c.Validate([]byte(`{"count": 3.0, "ratio": 0.25, "note": null}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), obj["count"])
	assert.Equal(t, json.Number("0.25"), obj["ratio"])
	assert.Contains(t, obj, "note")
	assert.Nil(t, obj["note"])
	assert.NotContains(t, obj, "live")

	_, err = c.Validate([]byte(`{"count": 3.5, "ratio": 1}`))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.Validate([]byte(`{"count": 1, "ratio": "high"}`))
	assert.ErrorIs(t, err, ErrValidation)

	obj, err = c.Validate([]byte(`{"count": 1e3, "ratio": 1}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("1000"), obj["count"])

	obj, err = c.Validate([]byte(`{"count": -9223372036854775808, "ratio": 1}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("-9223372036854775808"), obj["count"])
}

func TestValidate_RejectsIntegersOutsideInt64(t *testing.T) {
	c, err := Compile(&Model{Root: Object("M", "", Integer("n", ""))})
	require.NoError(t, err)

	for _, raw := range []string{
		`{"n": 1e20}`,
		`{"n": 9223372036854775808}`,
		`{"n": -1e19}`,
		`{"n": 9.3e18}`,
	} {
		t.Run(raw, func(t *testing.T) {
			obj, err := c.Validate([]byte(raw))
			require.Error(t, err)
			assert.Nil(t, obj)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), "$.n: ")
			assert.Contains(t, err.Error(), "out of integer range")
		})
	}
}

func TestCache_CompilesOncePerModel(t *testing.T) {
	cache := NewCache()
	m := episodeModel()

	var wg sync.WaitGroup
	results := make([]*Compiled, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := cache.Get(m)
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range results {
		assert.Same(t, results[0], c)
	}
	assert.Equal(t, 1, cache.Len())

	other, err := cache.Get(episodeModel())
	require.NoError(t, err)
	assert.NotSame(t, results[0], other)
	assert.Equal(t, 2, cache.Len())
}

func TestCache_RemembersFailures(t *testing.T) {
	var cache Cache
	broken := &Model{Root: Object("", "", Ref("x", "Missing"))}

	_, err := cache.Get(broken)
	assert.ErrorIs(t, err, ErrUnknownRef)
	_, err = cache.Get(broken)
	assert.ErrorIs(t, err, ErrUnknownRef)
	assert.Equal(t, 1, cache.Len())
}
