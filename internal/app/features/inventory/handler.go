// Package inventory serves the club's asset register.
package inventory

import (
	inventorystore "github.com/dalemusser/strataclub/internal/app/store/inventory"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the inventory endpoints.
type Handler struct {
	items  *inventorystore.Store
	logger *zap.Logger
}

// NewHandler creates an inventory Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{items: inventorystore.New(db), logger: logger}
}

// MountRoutes registers the inventory endpoints on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))

		r.Post("/inventory", h.Create)
		r.Get("/inventory", h.List)
		r.Get("/inventory/summary", h.Summary)
		r.Get("/inventory/detail/{id}", h.Detail)
		r.Put("/inventory/detail/{id}", h.Update)
		r.Delete("/inventory/detail/{id}", h.Delete)
	})
}
