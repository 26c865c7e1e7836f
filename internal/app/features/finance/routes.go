package finance

import (
	categorystore "github.com/dalemusser/strataclub/internal/app/store/categories"
	financestore "github.com/dalemusser/strataclub/internal/app/store/finance"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the finance endpoints on the /api router r. All of
// them are admin-only.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))

		for _, kind := range []financestore.Kind{financestore.Income, financestore.Expenditure} {
			base := "/" + string(kind)
			r.Post(base, h.Create(kind))
			r.Get(base, h.List(kind))
			r.Get(base+"/detail/{id}", h.Detail(kind))
			r.Put(base+"/detail/{id}", h.Update(kind))
			r.Delete(base+"/detail/{id}", h.Delete(kind))
			r.Get("/total"+string(kind), h.Total(kind))
			r.Get("/"+kind.Collection(), h.ByMonth(kind))
		}

		for _, kind := range []categorystore.Kind{categorystore.Finance, categorystore.Inventory} {
			path := "/" + string(kind) + "_category"
			r.Post(path, h.CreateCategory(kind))
			r.Get(path, h.ListCategories(kind))
		}

		r.Post("/chat", h.Chat)
	})
}
