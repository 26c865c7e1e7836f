// Package apistats serves per-route API usage statistics to admins.
//
// Admin endpoints:
//   - GET /api/stats/routes?hours=
package apistats

import (
	"context"
	"net/http"
	"time"

	statsstore "github.com/dalemusser/strataclub/internal/app/store/apistats"
	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	store  *statsstore.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{store: statsstore.New(db), logger: logger, now: time.Now}
}

// MountRoutes registers the admin stats endpoint on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))
		r.Get("/stats/routes", h.Routes)
	})
}

// Routes handles GET /api/stats/routes. hours defaults to 24.
func (h *Handler) Routes(w http.ResponseWriter, r *http.Request) {
	hours, ok := formutil.PositiveInt(r.URL.Query().Get("hours"), 24)
	if !ok {
		jsonutil.BadRequest(w, "hours must be a positive integer.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	since := h.now().Add(-time.Duration(hours) * time.Hour)
	routes, err := h.store.Summary(ctx, since)
	if err != nil {
		h.logger.Error("api stats summary failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	var requests, errs int64
	for _, rs := range routes {
		requests += rs.Requests
		errs += rs.Errors
	}
	jsonutil.OK(w, map[string]any{
		"since":    since,
		"requests": requests,
		"errors":   errs,
		"routes":   routes,
	})
}
