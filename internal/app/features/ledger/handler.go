// Package ledger lets admins browse API requests that ended in an error.
//
// Admin endpoints:
//   - GET /api/ledger?status=&class=&path=&page=&perPage=
//   - GET /api/ledger/summary?hours=
package ledger

import (
	"context"
	"net/http"
	"strconv"
	"time"

	ledgerstore "github.com/dalemusser/strataclub/internal/app/store/ledger"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the ledger endpoints.
type Handler struct {
	store  *ledgerstore.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a ledger Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{store: ledgerstore.New(db), logger: logger, now: time.Now}
}

// MountRoutes registers the admin ledger endpoints on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))
		r.Get("/ledger", h.List)
		r.Get("/ledger/summary", h.Summary)
	})
}

// List handles GET /api/ledger.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := urlparam.Paging(r)
	if !ok {
		jsonutil.BadRequest(w, "Page and perPage must be positive integers.")
		return
	}
	q := r.URL.Query()
	f := ledgerstore.ListFilter{
		ErrorClass: q.Get("class"),
		PathPrefix: q.Get("path"),
	}
	if s := q.Get("status"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			jsonutil.BadRequest(w, "status must be a number.")
			return
		}
		f.Status = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entries, total, err := h.store.List(ctx, f, page, perPage)
	if err != nil {
		h.logger.Error("ledger list failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, map[string]any{
		"entries":    entries,
		"page":       page,
		"total":      total,
		"perPage":    perPage,
		"totalPages": storeutil.TotalPages(total, perPage),
	})
}

// Summary handles GET /api/ledger/summary. hours defaults to 24.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	hours, ok := formutil.PositiveInt(r.URL.Query().Get("hours"), 24)
	if !ok {
		jsonutil.BadRequest(w, "hours must be a positive integer.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	since := h.now().Add(-time.Duration(hours) * time.Hour)
	counts, err := h.store.CountByClass(ctx, since)
	if err != nil {
		h.logger.Error("ledger summary failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, map[string]any{"since": since, "counts": counts})
}
