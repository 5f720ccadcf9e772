package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeScriptGeneration generates a podcast script from source content
	TaskTypeScriptGeneration = "script_generation"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task input as JSON
	Payload() []byte

	// Execute runs the task logic and returns its JSON output
	Execute(ctx context.Context) (json.RawMessage, error)
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// Job is the record kept for a submitted task.
type Job struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Status    TaskStatus      `json:"status"`
	Payload   json.RawMessage `json:"-"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// JobStore defines the interface for persisting jobs
type JobStore interface {
	// SaveJob records a new job for task in the pending state
	SaveJob(ctx context.Context, task Task) (*Job, error)

	// UpdateJobStatus updates the status of a job and its error message
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status TaskStatus, errorMsg string) error

	// CompleteJob marks a job completed and stores its result
	CompleteJob(ctx context.Context, id uuid.UUID, result json.RawMessage) error

	// GetJob returns a copy of the job record
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
}
