package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/podscript/internal/api/middleware"
	"github.com/phrazzld/podscript/internal/api/shared"
)

// NewRouter wires the HTTP routes. jobs may be nil when no task runner is
// configured; the job routes are then not mounted.
func NewRouter(scripts *ScriptHandler, jobs *JobHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/voices", scripts.ListVoices)
		r.Post("/scripts", scripts.GenerateScript)
		if scripts.renderers != nil {
			r.Post("/audio", scripts.RenderAudio)
		}

		if jobs != nil {
			r.Post("/jobs", jobs.CreateJob)
			r.Get("/jobs/{id}", jobs.GetJob)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	})

	return r
}
