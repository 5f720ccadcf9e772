package gemini_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/podscript/internal/config"
	"github.com/phrazzld/podscript/internal/platform/gemini"
	"github.com/phrazzld/podscript/internal/platform/logger"
	"github.com/phrazzld/podscript/internal/schema"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// step is one scripted reply of a fakeModels.
type step struct {
	resp *genai.GenerateContentResponse
	err  error
}

// fakeModels replays steps in order and records every call.
type fakeModels struct {
	mu       sync.Mutex
	steps    []step
	calls    int
	models   []string
	contents [][]*genai.Content
	configs  []*genai.GenerateContentConfig
	during   func(ctx context.Context, call int)
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.models = append(f.models, model)
	f.contents = append(f.contents, contents)
	f.configs = append(f.configs, cfg)
	var s step
	if call <= len(f.steps) {
		s = f.steps[call-1]
	} else if len(f.steps) > 0 {
		s = f.steps[len(f.steps)-1]
	}
	during := f.during
	f.mu.Unlock()

	if during != nil {
		during(ctx, call)
	}
	return s.resp, s.err
}

func (f *fakeModels) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingSleeper returns immediately and remembers each requested wait.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
	hook  func()
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	hook := r.hook
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return ctx.Err()
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: text}},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:          "test-api-key",
		ModelName:             "gemini-2.5-pro",
		Temperature:           0.7,
		MaxRetries:            2,
		InitialBackoffSeconds: 2.0,
		RequestTimeoutSeconds: 300,
	}
}

// noteModel is a small data model used by the client tests.
func noteModel() *schema.Model {
	return &schema.Model{
		Name: "Note",
		Root: schema.Object("Note", "A short note",
			schema.String("title", "Note title"),
			schema.Array("tags", "Tags", schema.String("", "")),
		),
	}
}

const validNote = `{"title": "Groceries", "tags": ["home", "weekly"]}`

// newTestClient builds a Client around models with a recording sleeper.
func newTestClient(
	t *testing.T,
	cfg config.LLMConfig,
	models gemini.ContentGenerator,
) (*gemini.Client, *recordingSleeper, *logger.TestLogBuffer) {
	t.Helper()

	log, buf := logger.GetTestLogger(t)
	sleeper := &recordingSleeper{}
	client, err := gemini.NewClient(context.Background(), log, cfg,
		gemini.WithContentGenerator(models),
		gemini.WithSleeper(sleeper.Sleep),
	)
	require.NoError(t, err)
	return client, sleeper, buf
}
