package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/podscript/internal/podcast"
)

// Common errors
var (
	ErrNilGenerator = errors.New("script generator cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// ScriptGenerator produces a podcast script. *podcast.Service implements it.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, req podcast.ScriptRequest) (*podcast.Script, error)
}

// ScriptTask generates one podcast script in the background.
type ScriptTask struct {
	id        uuid.UUID
	request   podcast.ScriptRequest
	generator ScriptGenerator
	logger    *slog.Logger
}

var _ Task = (*ScriptTask)(nil)

// NewScriptTask creates a task for req with a fresh id.
func NewScriptTask(req podcast.ScriptRequest, generator ScriptGenerator, logger *slog.Logger) (*ScriptTask, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	id := uuid.New()
	return &ScriptTask{
		id:        id,
		request:   req,
		generator: generator,
		logger:    logger.With("task_id", id),
	}, nil
}

// ID implements Task.
func (t *ScriptTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *ScriptTask) Type() string { return TaskTypeScriptGeneration }

// Payload implements Task.
func (t *ScriptTask) Payload() []byte {
	b, err := json.Marshal(t.request)
	if err != nil {
		return nil
	}
	return b
}

// Execute implements Task. The result is the script as JSON.
func (t *ScriptTask) Execute(ctx context.Context) (json.RawMessage, error) {
	t.logger.DebugContext(ctx, "generating script",
		"content_length", len(t.request.Content),
		"num_speakers", t.request.NumSpeakers)

	script, err := t.generator.GenerateScript(ctx, t.request)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(script)
	if err != nil {
		return nil, fmt.Errorf("failed to encode script: %w", err)
	}
	return b, nil
}
