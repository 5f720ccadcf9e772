package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/phrazzld/podscript/internal/api/shared"
	"github.com/phrazzld/podscript/internal/platform/logger"
	"github.com/phrazzld/podscript/internal/podcast"
	"github.com/phrazzld/podscript/internal/task"
)

// AudioRenderer turns a script into a WAV stream. *audio.Renderer implements it.
type AudioRenderer interface {
	Render(ctx context.Context, script *podcast.Script, w io.WriteSeeker) error
}

// RendererFactory returns the renderer for a text-to-speech model. An empty
// model selects the configured one.
type RendererFactory func(speechModel string) AudioRenderer

// ScriptHandler serves the voice catalog and synchronous script and audio generation.
type ScriptHandler struct {
	scripts   task.ScriptGenerator
	renderers RendererFactory
	logger    *slog.Logger
}

// NewScriptHandler creates a ScriptHandler. renderers may be nil, in which
// case audio rendering is not offered.
func NewScriptHandler(scripts task.ScriptGenerator, renderers RendererFactory, logger *slog.Logger) *ScriptHandler {
	return &ScriptHandler{
		scripts:   scripts,
		renderers: renderers,
		logger:   logger.With("component", "script_handler"),
	}
}

// ListVoices handles GET /api/voices requests
func (h *ScriptHandler) ListVoices(w http.ResponseWriter, r *http.Request) {
	voices := podcast.Voices()
	resp := make([]VoiceResponse, 0, len(voices))
	for _, v := range voices {
		resp = append(resp, voiceToResponse(v))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GenerateScript handles POST /api/scripts requests. The script is generated
// while the client waits; use the jobs endpoints for long documents.
func (h *ScriptHandler) GenerateScript(w http.ResponseWriter, r *http.Request) {
	var req ScriptRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	script, err := h.scripts.GenerateScript(r.Context(), req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("script generated",
		"title", script.Title,
		"turns", len(script.Dialogue))
	shared.RespondWithJSON(w, r, http.StatusOK, script)
}

// RenderAudio handles POST /api/audio requests: the body is a script and the
// response is a mono 16-bit WAV file. The optional speech_model query
// parameter picks the text-to-speech model.
func (h *ScriptHandler) RenderAudio(w http.ResponseWriter, r *http.Request) {
	var script podcast.Script
	if err := decodeAndValidate(w, r, &script); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	speechModel := strings.TrimSpace(r.URL.Query().Get("speech_model"))

	tmp, err := os.CreateTemp("", "podscript-*.wav")
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("failed to create audio buffer: %w", err))
		return
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if err := h.renderers(speechModel).Render(r.Context(), &script, tmp); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	size, err := tmp.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = tmp.Seek(0, io.SeekStart)
	}
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("failed to rewind audio buffer: %w", err))
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="podcast.wav"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, tmp); err != nil {
		logger.FromContext(r.Context()).Error("failed to stream audio", "error", err)
	}
}
