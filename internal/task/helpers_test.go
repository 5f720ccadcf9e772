package task

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// mockTask implements the Task interface for testing
type mockTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	execFn   func(ctx context.Context) (json.RawMessage, error)
}

func (m *mockTask) ID() uuid.UUID   { return m.id }
func (m *mockTask) Type() string    { return m.taskType }
func (m *mockTask) Payload() []byte { return m.payload }

func (m *mockTask) Execute(ctx context.Context) (json.RawMessage, error) {
	if m.execFn != nil {
		return m.execFn(ctx)
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func newMockTask() *mockTask {
	return &mockTask{
		id:       uuid.New(),
		taskType: "mock",
		payload:  []byte(`{"content":"test payload"}`),
	}
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// waitForStatus polls store until the job reaches status.
func waitForStatus(t *testing.T, store JobStore, id uuid.UUID, status TaskStatus) *Job {
	t.Helper()

	var job *Job
	require.Eventually(t, func() bool {
		j, err := store.GetJob(context.Background(), id)
		if err != nil {
			return false
		}
		job = j
		return j.Status == status
	}, 2*time.Second, 5*time.Millisecond, "job %s never reached %s", id, status)
	return job
}
