package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/podscript/internal/api/shared"
	"github.com/phrazzld/podscript/internal/platform/logger"
	"github.com/phrazzld/podscript/internal/podcast"
	"github.com/phrazzld/podscript/internal/task"
)

// JobRunner queues background tasks and reports on them. *task.TaskRunner implements it.
type JobRunner interface {
	Submit(ctx context.Context, t task.Task) (*task.Job, error)
	Job(ctx context.Context, id uuid.UUID) (*task.Job, error)
}

// JobHandler handles background script generation requests
type JobHandler struct {
	scripts task.ScriptGenerator
	runner  JobRunner
	logger  *slog.Logger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(scripts task.ScriptGenerator, runner JobRunner, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		scripts: scripts,
		runner:  runner,
		logger:  logger.With("component", "job_handler"),
	}
}

// CreateJob handles POST /api/jobs requests
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req ScriptRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	// Reject a bad cast now rather than in the background.
	numSpeakers, voiceIDs := req.toDomain().Cast()
	if _, err := podcast.Instruction(numSpeakers, voiceIDs); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	t, err := task.NewScriptTask(req.toDomain(), h.scripts, h.logger)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	job, err := h.runner.Submit(r.Context(), t)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("script job submitted", "job_id", job.ID)

	// 202 Accepted since processing happens asynchronously
	w.Header().Set("Location", "/api/jobs/"+job.ID.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, jobToResponse(job))
}

// GetJob handles GET /api/jobs/{id} requests
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	job, err := h.runner.Job(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := jobToResponse(job)
	if job.Status == task.TaskStatusCompleted && len(job.Result) > 0 {
		var script podcast.Script
		if err := json.Unmarshal(job.Result, &script); err != nil {
			HandleAPIError(w, r, err)
			return
		}
		resp.Script = &script
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
