// Package notifications serves the notice board: admin-managed messages
// shown to members until their expiry date.
package notifications

import (
	"time"

	notificationstore "github.com/dalemusser/strataclub/internal/app/store/notifications"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the notification endpoints.
type Handler struct {
	notes  *notificationstore.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a notifications Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{notes: notificationstore.New(db), logger: logger, now: time.Now}
}

func (h *Handler) today() string {
	return storeutil.ISODate(h.now())
}

// MountRoutes registers the notification endpoints on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Get("/notifications/active", h.Active)

	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))

		r.Post("/notifications", h.Create)
		r.Get("/notifications", h.List)
		r.Get("/notifications/{id}", h.Detail)
		r.Put("/notifications/{id}", h.Update)
		r.Delete("/notifications/{id}", h.Delete)
	})
}
