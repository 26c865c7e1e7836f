// Package auditlog serves the security audit trail to admins.
//
// Admin endpoints:
//   - GET /api/audit?category=&event=&email=&userId=&page=&perPage=
package auditlog

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/store/audit"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	store  *audit.Store
	logger *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{store: audit.New(db), logger: logger}
}

// MountRoutes registers GET /audit on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))
		r.Get("/audit", h.List)
	})
}

// List handles GET /api/audit.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := urlparam.Paging(r)
	if !ok {
		jsonutil.BadRequest(w, "Page and perPage must be positive integers.")
		return
	}
	q := r.URL.Query()
	f := audit.QueryFilter{
		Category:  q.Get("category"),
		EventType: q.Get("event"),
		Email:     strings.ToLower(strings.TrimSpace(q.Get("email"))),
	}
	if s := q.Get("userId"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid user ID")
			return
		}
		f.UserID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.store.Query(ctx, f, page, perPage)
	if err != nil {
		h.logger.Error("audit query failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	total, err := h.store.Count(ctx, f)
	if err != nil {
		h.logger.Error("audit count failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, map[string]any{
		"events":     events,
		"page":       page,
		"total":      total,
		"perPage":    perPage,
		"totalPages": storeutil.TotalPages(total, perPage),
	})
}
