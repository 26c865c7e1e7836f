package users

import (
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the user endpoints on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/reset-password", h.RequestPasswordReset)
	r.Put("/reset-password/{id}", h.ResetPassword)
	r.Post("/send-verification", h.SendVerification)
	r.Post("/check-email", h.CheckEmail)

	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Get("/user/detail/{studentId}", h.DetailByStudentID)
		r.Put("/user/detail/{id}", h.UpdateSelf)
		r.Get("/users/{studentId}", h.Card)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.RequireRole(models.RoleAdmin))
			r.Get("/members", h.Members)
			r.Get("/admins", h.Admins)
			r.Get("/members/count", h.MemberCount)
			r.Get("/member/detail/{id}", h.Detail)
			r.Put("/member/detail/{id}", h.UpdateMember)
			r.Delete("/member/detail/{id}", h.DeleteMember)
		})
	})
}
