package events

import (
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the event endpoints on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Get("/events", h.List)
	r.Get("/event/detail/{id}", h.Detail)
	r.Get("/homeevent", h.Home)
	r.Get("/upcomingevents", h.Upcoming)

	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))
		r.Post("/eventnew", h.Create)
		r.Put("/event/{id}", h.Update)
		r.Delete("/event/{id}", h.Delete)
		r.Put("/event/{id}/can-register", h.SetCanRegister)
	})
}
