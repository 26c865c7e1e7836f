package registrations

import (
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the registration endpoints on the /api router r.
// Every route requires a token.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Post("/eventregister", h.Register)
		r.Get("/registrations/{studentId}", h.ByStudent)
		r.Get("/registrations/status/{eventId}/{studentId}", h.Status)
		r.Delete("/registrations/{studentId}/{eventId}", h.Delete)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.RequireRole(models.RoleAdmin))
			r.Get("/admincheckregistrations/{eventId}", h.ByEvent)
			r.Put("/attendance/{eventId}/{studentId}", h.ConfirmAttendance)
			r.Put("/registrations/{id}/confirm", h.SetConfirm)
			r.Get("/registrations/today/count", h.TodayCount)
		})
	})
}
