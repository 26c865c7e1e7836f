package posts

import (
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the feed endpoints on the /api router r. Every
// route requires a signed-in member.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))

		r.Post("/createpost", h.Create)
		r.Get("/posts", h.List)
		r.Get("/posts/comments/count", h.TotalComments)
		r.Get("/post/detail/{id}", h.Detail)
		r.Put("/editpost/{id}", h.Update)
		r.Delete("/posts/{id}", h.Delete)

		r.Post("/posts/{postId}/like/{studentId}", h.ToggleLike)
		r.Post("/posts/{postId}/comment", h.AddComment)
		r.Put("/posts/{postId}/comments/{commentId}", h.EditComment)
		r.Delete("/posts/{postId}/comments/{commentId}", h.DeleteComment)
	})
}
