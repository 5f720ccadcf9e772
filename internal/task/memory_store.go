package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store errors
var (
	ErrJobNotFound  = errors.New("job not found")
	ErrDuplicateJob = errors.New("job already exists")
)

// MemoryJobStore keeps job records in memory. It is safe for concurrent use.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
	now  func() time.Time
}

var _ JobStore = (*MemoryJobStore)(nil)

// NewMemoryJobStore creates an empty store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{
		jobs: make(map[uuid.UUID]*Job),
		now:  time.Now,
	}
}

// SaveJob implements JobStore.
func (s *MemoryJobStore) SaveJob(_ context.Context, task Task) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[task.ID()]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, task.ID())
	}

	now := s.now().UTC()
	job := &Job{
		ID:        task.ID(),
		Type:      task.Type(),
		Status:    TaskStatusPending,
		Payload:   task.Payload(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	return copyJob(job), nil
}

// UpdateJobStatus implements JobStore.
func (s *MemoryJobStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status TaskStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	job.Status = status
	job.Error = errorMsg
	job.UpdatedAt = s.now().UTC()
	return nil
}

// CompleteJob implements JobStore.
func (s *MemoryJobStore) CompleteJob(_ context.Context, id uuid.UUID, result json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	job.Status = TaskStatusCompleted
	job.Error = ""
	job.Result = append(json.RawMessage(nil), result...)
	job.UpdatedAt = s.now().UTC()
	return nil
}

// GetJob implements JobStore.
func (s *MemoryJobStore) GetJob(_ context.Context, id uuid.UUID) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return copyJob(job), nil
}

// Len returns the number of jobs recorded.
func (s *MemoryJobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func copyJob(j *Job) *Job {
	c := *j
	c.Payload = append(json.RawMessage(nil), j.Payload...)
	c.Result = append(json.RawMessage(nil), j.Result...)
	return &c
}
