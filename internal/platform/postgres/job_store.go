package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/podscript/internal/platform/logger"
	"github.com/phrazzld/podscript/internal/task"
)

// interruptedMessage is recorded on jobs a previous process never finished.
const interruptedMessage = "job interrupted by server restart"

// JobStore implements task.JobStore on the jobs table.
type JobStore struct {
	db  DBTX
	now func() time.Time
}

var _ task.JobStore = (*JobStore)(nil)

// NewJobStore creates a JobStore on db, which may be a *sql.DB or *sql.Tx.
func NewJobStore(db DBTX) *JobStore {
	return &JobStore{db: db, now: time.Now}
}

// timestamp returns the current time at the precision PostgreSQL stores.
func (s *JobStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// SaveJob implements task.JobStore.
func (s *JobStore) SaveJob(ctx context.Context, t task.Task) (*task.Job, error) {
	log := logger.FromContext(ctx)

	payload := t.Payload()
	if len(payload) == 0 {
		payload = []byte("null")
	}

	now := s.timestamp()
	job := &task.Job{
		ID:        t.ID(),
		Type:      t.Type(),
		Status:    task.TaskStatusPending,
		Payload:   append(json.RawMessage(nil), payload...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO jobs (id, type, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.Type,
		string(job.Status),
		string(payload),
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save job",
			"job_id", job.ID,
			"job_type", job.Type,
			"error", err)
		return nil, fmt.Errorf("failed to save job: %w", MapError(err))
	}

	return job, nil
}

// UpdateJobStatus implements task.JobStore.
func (s *JobStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status task.TaskStatus, errorMsg string) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, string(status), errorMsg, s.timestamp(), id)
	if err != nil {
		log.Error("failed to update job status",
			"job_id", id,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update job status: %w", MapError(err))
	}
	return checkRowsAffected(result, id)
}

// CompleteJob implements task.JobStore.
func (s *JobStore) CompleteJob(ctx context.Context, id uuid.UUID, result json.RawMessage) error {
	log := logger.FromContext(ctx)

	var value any
	if len(result) > 0 {
		value = string(result)
	}

	query := `
		UPDATE jobs
		SET status = $1, result = $2, error_message = '', updated_at = $3
		WHERE id = $4
	`
	res, err := s.db.ExecContext(ctx, query, string(task.TaskStatusCompleted), value, s.timestamp(), id)
	if err != nil {
		log.Error("failed to complete job",
			"job_id", id,
			"error", err)
		return fmt.Errorf("failed to complete job: %w", MapError(err))
	}
	return checkRowsAffected(res, id)
}

// GetJob implements task.JobStore.
func (s *JobStore) GetJob(ctx context.Context, id uuid.UUID) (*task.Job, error) {
	query := `
		SELECT id, type, status, payload, result, error_message, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	var (
		job     task.Job
		status  string
		payload []byte
		result  []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.Type,
		&status,
		&payload,
		&result,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, MapError(err))
	}

	job.Status = task.TaskStatus(status)
	job.Payload = payload
	if len(result) > 0 {
		job.Result = result
	}
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return &job, nil
}

// FailInterrupted marks every pending or processing job failed. A new process
// calls it before accepting work, since queued tasks do not survive a restart.
// It returns the number of jobs changed.
func (s *JobStore) FailInterrupted(ctx context.Context) (int64, error) {
	query := `
		UPDATE jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE status IN ($4, $5)
	`
	result, err := s.db.ExecContext(ctx, query,
		string(task.TaskStatusFailed),
		interruptedMessage,
		s.timestamp(),
		string(task.TaskStatusPending),
		string(task.TaskStatusProcessing),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to fail interrupted jobs: %w", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		logger.FromContext(ctx).Warn("marked interrupted jobs failed", "count", n)
	}
	return n, nil
}
