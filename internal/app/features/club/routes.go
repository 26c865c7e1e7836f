package club

import (
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the club endpoints on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Get("/homecontent/{id}", h.HomeContent)
	r.Get("/club/detail/{id}", h.Detail)

	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))
		r.Post("/createclub", h.Create)
		r.Put("/editclubhome/{id}", h.EditHome)
		r.Put("/editaboutus/{id}", h.EditAbout)
		r.Put("/editicon/{id}", h.EditIcon)
	})
}
