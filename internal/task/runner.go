package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/podscript/internal/config"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: config.DefaultWorkerCount,
		QueueSize:   config.DefaultQueueSize,
	}
}

// RunnerConfig converts the jobs section of the application config.
func RunnerConfig(cfg config.JobsConfig) TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
	}
}

// TaskRunner manages background task processing: it records every submitted
// task in the store and keeps its status current as workers run it.
type TaskRunner struct {
	store      JobStore
	queue      *TaskQueue
	pool       *WorkerPool
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store JobStore, cfg TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = config.DefaultQueueSize
	}

	r := &TaskRunner{
		store:  store,
		queue:  NewTaskQueue(cfg.QueueSize, logger),
		logger: logger,
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
	r.pool = NewWorkerPool(r.queue, WorkerPoolConfig{WorkerCount: cfg.WorkerCount}, r.processTask, logger)
	return r
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit records task as a pending job and queues it.
// A task that cannot be queued is recorded as failed.
func (r *TaskRunner) Submit(ctx context.Context, task Task) (*Job, error) {
	job, err := r.store.SaveJob(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.queue.Enqueue(task); err != nil {
		if updateErr := r.store.UpdateJobStatus(ctx, task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			r.logger.ErrorContext(ctx, "failed to mark unqueued task as failed",
				"task_id", task.ID(),
				"error", updateErr)
		}
		return nil, err
	}

	return job, nil
}

// Job returns the current record of a submitted task.
func (r *TaskRunner) Job(ctx context.Context, id uuid.UUID) (*Job, error) {
	return r.store.GetJob(ctx, id)
}

// Start begins processing tasks
func (r *TaskRunner) Start() {
	r.pool.Start()
}

// Stop refuses new tasks and waits for queued ones to finish. If ctx ends
// first, work in progress is cancelled and ctx.Err() is returned.
func (r *TaskRunner) Stop(ctx context.Context) error {
	r.queue.Close()

	done := make(chan struct{})
	go func() {
		r.pool.Drain()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		r.logger.Warn("task runner shutdown deadline reached, cancelling running tasks")
		r.pool.Stop()
		<-done
		return ctx.Err()
	}
}

// processTask handles execution of a single task
func (r *TaskRunner) processTask(ctx context.Context, task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateJobStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		logger.Error("failed to update task status to processing", "error", err)
		return
	}

	logger.Info("processing task")

	result, err := task.Execute(ctx)
	if err != nil {
		if updateErr := r.store.UpdateJobStatus(context.WithoutCancel(ctx), task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			logger.Error("failed to update task status to failed", "error", updateErr)
		}
		r.errHandler(task, err)
		return
	}

	if result == nil {
		result = json.RawMessage("null")
	}
	if err := r.store.CompleteJob(context.WithoutCancel(ctx), task.ID(), result); err != nil {
		logger.Error("failed to update task status to completed", "error", err)
		return
	}
	logger.Info("task completed successfully")
}
