// Package jobs lets admins inspect the background task runner and trigger
// a job outside its schedule.
//
// Admin endpoints:
//   - GET  /api/jobs
//   - POST /api/jobs/{name}/run
package jobs

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/tasks"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Runner is the part of *tasks.Runner the handler uses.
type Runner interface {
	Status() []tasks.JobStatus
	RunOnce(ctx context.Context, name string) error
}

type Handler struct {
	runner Runner
	logger *zap.Logger
}

func NewHandler(runner Runner, logger *zap.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))
		r.Get("/jobs", h.List)
		r.Post("/jobs/{name}/run", h.Run)
	})
}

// List handles GET /api/jobs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]any{"jobs": h.runner.Status()})
}

// Run handles POST /api/jobs/{name}/run. The job runs synchronously; on
// failure the error is kept in the job's lastError for GET /api/jobs.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err := h.runner.RunOnce(ctx, name)
	switch {
	case errors.Is(err, tasks.ErrUnknownJob):
		jsonutil.NotFound(w, "Job not found")
	case err != nil:
		h.logger.Error("manual job run failed", zap.String("job", name), zap.Error(err))
		jsonutil.InternalError(w, "Job failed.")
	default:
		h.logger.Info("manual job run", zap.String("job", name))
		jsonutil.Message(w, http.StatusOK, "Job completed.")
	}
}
