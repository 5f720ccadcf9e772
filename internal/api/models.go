package api

import (
	"time"

	"github.com/phrazzld/podscript/internal/podcast"
	"github.com/phrazzld/podscript/internal/redact"
	"github.com/phrazzld/podscript/internal/task"
)

// ScriptRequest defines the payload for script generation endpoints.
type ScriptRequest struct {
	Content     string   `json:"content"      validate:"required"`
	NumSpeakers int      `json:"num_speakers" validate:"omitempty,min=1,max=6"`
	VoiceIDs    []string `json:"voice_ids"    validate:"omitempty,max=6,dive,required"`
	Model       string   `json:"model"        validate:"omitempty,max=128"`
	Temperature *float64 `json:"temperature"  validate:"omitempty,gte=0,lte=1"`
	SpeechModel string   `json:"speech_model" validate:"omitempty,max=128"`
}

// toDomain converts the request to the podcast package's form.
func (r ScriptRequest) toDomain() podcast.ScriptRequest {
	return podcast.ScriptRequest{
		Content:     r.Content,
		NumSpeakers: r.NumSpeakers,
		VoiceIDs:    r.VoiceIDs,
		Model:       r.Model,
		Temperature: r.Temperature,
		SpeechModel: r.SpeechModel,
	}
}

// VoiceResponse describes one prebuilt voice.
type VoiceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
}

// JobResponse reports the state of a background job.
type JobResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Script    *podcast.Script `json:"script,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

func voiceToResponse(v podcast.Voice) VoiceResponse {
	return VoiceResponse{
		ID:          v.ID,
		Name:        v.Name,
		Gender:      v.Gender,
		Description: v.Description,
	}
}

func jobToResponse(job *task.Job) JobResponse {
	return JobResponse{
		ID:        job.ID.String(),
		Type:      job.Type,
		Status:    string(job.Status),
		Error:     redact.String(job.Error),
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}
