package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/podscript/internal/api/shared"
	"github.com/phrazzld/podscript/internal/audio"
	"github.com/phrazzld/podscript/internal/generation"
	"github.com/phrazzld/podscript/internal/platform/logger"
	"github.com/phrazzld/podscript/internal/podcast"
	"github.com/phrazzld/podscript/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScripts struct {
	mu     sync.Mutex
	script *podcast.Script
	err    error
	calls  []podcast.ScriptRequest
}

func (f *fakeScripts) GenerateScript(_ context.Context, req podcast.ScriptRequest) (*podcast.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.script, f.err
}

type fakeRenderer struct {
	err    error
	models []string
}

// factory records the speech model of every request.
func (f *fakeRenderer) factory(speechModel string) AudioRenderer {
	f.models = append(f.models, speechModel)
	return f
}

func (f *fakeRenderer) Render(_ context.Context, script *podcast.Script, w io.WriteSeeker) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "RIFF"+script.Title)
	return err
}

func sampleScript() *podcast.Script {
	return &podcast.Script{
		Title:       "Blogging 101",
		Description: "Getting started",
		Speakers: []podcast.Speaker{
			{Name: "Ana", VoiceID: "kore"},
			{Name: "Ben", VoiceID: "puck"},
		},
		Dialogue: []podcast.DialogueTurn{
			{Speaker: "Ana", Text: "Welcome."},
			{Speaker: "Ben", Text: "Thanks."},
			{Speaker: "Ana", Text: "Let's begin."},
		},
	}
}

type testServer struct {
	handler http.Handler
	scripts *fakeScripts
	runner  *task.TaskRunner
	logs    *logger.TestLogBuffer
}

func newTestServer(t *testing.T, scripts *fakeScripts, renderer *fakeRenderer) *testServer {
	t.Helper()

	var renderers RendererFactory
	if renderer != nil {
		renderers = renderer.factory
	}

	log, buf := logger.GetTestLogger(t)
	runner := task.NewTaskRunner(task.NewMemoryJobStore(), task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, log)
	runner.Start()
	t.Cleanup(func() { _ = runner.Stop(context.Background()) })

	return &testServer{
		handler: NewRouter(
			NewScriptHandler(scripts, renderers, log),
			NewJobHandler(scripts, runner, log),
			log,
		),
		scripts: scripts,
		runner:  runner,
		logs:    buf,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeScripts{}, nil)

	rec := srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Len(t, rec.Header().Get("X-Trace-Id"), shared.TraceIDLength)
}

func TestListVoices(t *testing.T) {
	srv := newTestServer(t, &fakeScripts{}, nil)

	rec := srv.do(t, http.MethodGet, "/api/voices", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var voices []VoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &voices))
	require.Len(t, voices, len(podcast.Voices()))
	assert.Equal(t, VoiceResponse{
		ID: "zephyr", Name: "Zephyr", Gender: "Female", Description: "Bright and clear tone",
	}, voices[0])
}

func TestGenerateScript_Success(t *testing.T) {
	scripts := &fakeScripts{script: sampleScript()}
	srv := newTestServer(t, scripts, nil)

	rec := srv.do(t, http.MethodPost, "/api/scripts",
		`{"content": "Blogging basics", "num_speakers": 2, "voice_ids": ["kore", "puck"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var script podcast.Script
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &script))
	assert.Equal(t, *sampleScript(), script)

	require.Len(t, scripts.calls, 1)
	assert.Equal(t, podcast.ScriptRequest{
		Content:     "Blogging basics",
		NumSpeakers: 2,
		VoiceIDs:    []string{"kore", "puck"},
	}, scripts.calls[0])
}

func TestGenerateScript_ModelOverrides(t *testing.T) {
	scripts := &fakeScripts{script: sampleScript()}
	srv := newTestServer(t, scripts, nil)

	rec := srv.do(t, http.MethodPost, "/api/scripts", `{
		"content": "Blogging basics",
		"model": "gemini-2.5-flash",
		"temperature": 0,
		"speech_model": "gemini-2.5-pro-preview-tts"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, scripts.calls, 1)
	got := scripts.calls[0]
	assert.Equal(t, "gemini-2.5-flash", got.Model)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.0, *got.Temperature)
	assert.Equal(t, "gemini-2.5-pro-preview-tts", got.SpeechModel)
	assert.Equal(t, "gemini-2.5-flash", got.Overrides().ModelName)
}

func TestGenerateScript_RequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "malformed_json",
			body:       `{"content": `,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request format",
		},
		{
			name:       "unknown_field",
			body:       `{"content": "x", "speakers": 2}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request format",
		},
		{
			name:       "missing_content",
			body:       `{"num_speakers": 2}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid content: required field",
		},
		{
			name:       "temperature_too_high",
			body:       `{"content": "x", "temperature": 1.5}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid temperature: too large",
		},
		{
			name:       "negative_temperature",
			body:       `{"content": "x", "temperature": -0.1}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid temperature: too small",
		},
		{
			name:       "too_many_speakers",
			body:       `{"content": "x", "num_speakers": 7}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid numspeakers: too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scripts := &fakeScripts{script: sampleScript()}
			srv := newTestServer(t, scripts, nil)

			rec := srv.do(t, http.MethodPost, "/api/scripts", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantMsg, resp.Error)
			assert.NotEmpty(t, resp.TraceID)
			assert.Empty(t, scripts.calls)
		})
	}
}

func TestGenerateScript_GenerationErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "retries_exhausted",
			err:        fmt.Errorf("%w after 3 attempts: %w", generation.ErrGenerationFailed, generation.ErrValidation),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "inconsistent_script",
			err:        fmt.Errorf("%w: turn 2 names undeclared speaker", podcast.ErrInconsistentScript),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "cancelled",
			err:        fmt.Errorf("%w: context canceled", generation.ErrCancelled),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "bad_cast",
			err:        fmt.Errorf("%w \"zeus\"", podcast.ErrUnknownVoice),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "configuration",
			err:        generation.ErrMissingDataModel,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeScripts{err: tt.err}, nil)

			rec := srv.do(t, http.MethodPost, "/api/scripts", `{"content": "Blogging basics"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, GetSafeErrorMessage(tt.err), resp.Error)
			assert.NotContains(t, rec.Body.String(), tt.err.Error())
		})
	}
}

func TestGenerateScript_ServerErrorsAreLogged(t *testing.T) {
	srv := newTestServer(t, &fakeScripts{err: errors.New("key=AIzaSyA1234567890abcdefghijklmnop leaked")}, nil)

	rec := srv.do(t, http.MethodPost, "/api/scripts", `{"content": "x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := srv.logs.EntriesWithMessage(t, "API error response")
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.NotContains(t, srv.logs.String(), "AIzaSyA1234567890abcdefghijklmnop")
}

func TestRenderAudio(t *testing.T) {
	body, err := json.Marshal(sampleScript())
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		srv := newTestServer(t, &fakeScripts{}, &fakeRenderer{})

		rec := srv.do(t, http.MethodPost, "/api/audio", string(body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
		assert.Equal(t, "RIFFBlogging 101", rec.Body.String())
		assert.Equal(t, fmt.Sprint(len("RIFFBlogging 101")), rec.Header().Get("Content-Length"))
	})

	t.Run("speech_model_query", func(t *testing.T) {
		renderer := &fakeRenderer{}
		srv := newTestServer(t, &fakeScripts{}, renderer)

		rec := srv.do(t, http.MethodPost, "/api/audio?speech_model=gemini-2.5-pro-preview-tts", string(body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = srv.do(t, http.MethodPost, "/api/audio", string(body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, []string{"gemini-2.5-pro-preview-tts", ""}, renderer.models)
	})

	t.Run("unknown_speaker", func(t *testing.T) {
		srv := newTestServer(t, &fakeScripts{}, &fakeRenderer{err: fmt.Errorf("%w: turn 0", audio.ErrUnknownSpeaker)})

		rec := srv.do(t, http.MethodPost, "/api/audio", string(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid_script", func(t *testing.T) {
		srv := newTestServer(t, &fakeScripts{}, &fakeRenderer{})

		rec := srv.do(t, http.MethodPost, "/api/audio", `{"title": "T", "description": "D", "speakers": [], "dialogue": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not_mounted_without_renderer", func(t *testing.T) {
		srv := newTestServer(t, &fakeScripts{}, nil)

		rec := srv.do(t, http.MethodPost, "/api/audio", string(body))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestJobs_SubmitAndPoll(t *testing.T) {
	scripts := &fakeScripts{script: sampleScript()}
	srv := newTestServer(t, scripts, nil)

	rec := srv.do(t, http.MethodPost, "/api/jobs", `{"content": "Blogging basics", "voice_ids": ["kore", "puck"]}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var created JobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, task.TaskTypeScriptGeneration, created.Type)
	assert.Equal(t, "/api/jobs/"+created.ID, rec.Header().Get("Location"))

	var polled JobResponse
	require.Eventually(t, func() bool {
		rec := srv.do(t, http.MethodGet, "/api/jobs/"+created.ID, "")
		if rec.Code != http.StatusOK {
			return false
		}
		polled = JobResponse{}
		if err := json.Unmarshal(rec.Body.Bytes(), &polled); err != nil {
			return false
		}
		return polled.Status == "completed"
	}, 2*time.Second, 5*time.Millisecond)

	require.NotNil(t, polled.Script)
	assert.Equal(t, "Blogging 101", polled.Script.Title)
	assert.Len(t, polled.Script.Dialogue, 3)
}

func TestJobs_FailedJobReportsError(t *testing.T) {
	scripts := &fakeScripts{err: fmt.Errorf("%w after 3 attempts", generation.ErrGenerationFailed)}
	srv := newTestServer(t, scripts, nil)

	rec := srv.do(t, http.MethodPost, "/api/jobs", `{"content": "Blogging basics"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var created JobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	var polled JobResponse
	require.Eventually(t, func() bool {
		rec := srv.do(t, http.MethodGet, "/api/jobs/"+created.ID, "")
		polled = JobResponse{}
		_ = json.Unmarshal(rec.Body.Bytes(), &polled)
		return polled.Status == "failed"
	}, 2*time.Second, 5*time.Millisecond)

	assert.Contains(t, polled.Error, "structured generation failed")
	assert.Nil(t, polled.Script)
}

func TestJobs_RequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "bad_cast_rejected_up_front",
			method:     http.MethodPost,
			path:       "/api/jobs",
			body:       `{"content": "x", "num_speakers": 3, "voice_ids": ["kore", "puck"]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown_voice",
			method:     http.MethodPost,
			path:       "/api/jobs",
			body:       `{"content": "x", "voice_ids": ["zeus"]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid_job_id",
			method:     http.MethodGet,
			path:       "/api/jobs/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown_job",
			method:     http.MethodGet,
			path:       "/api/jobs/" + uuid.NewString(),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scripts := &fakeScripts{script: sampleScript()}
			srv := newTestServer(t, scripts, nil)

			rec := srv.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Empty(t, scripts.calls)
		})
	}
}

func TestJobs_QueueFull(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	// Never started, so the single slot stays occupied.
	runner := task.NewTaskRunner(task.NewMemoryJobStore(), task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, log)
	scripts := &fakeScripts{script: sampleScript()}
	handler := NewRouter(NewScriptHandler(scripts, nil, log), NewJobHandler(scripts, runner, log), log)

	body := `{"content": "x"}`
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body)))
	assert.Equal(t, http.StatusAccepted, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body)))
	assert.Equal(t, http.StatusServiceUnavailable, second.Code)
}

func TestRequestBodyTooLarge(t *testing.T) {
	srv := newTestServer(t, &fakeScripts{script: sampleScript()}, nil)

	big := bytes.Repeat([]byte("a"), shared.MaxBodyBytes+10)
	body := `{"content": "` + string(big) + `"}`

	rec := srv.do(t, http.MethodPost, "/api/scripts", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
