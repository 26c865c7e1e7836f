// Package dashboard serves the admin overview: headline counts and totals
// drawn from every club collection in one response.
//
// Admin endpoints:
//   - GET /api/dashboard
package dashboard

import (
	"context"
	"net/http"
	"time"

	eventstore "github.com/dalemusser/strataclub/internal/app/store/events"
	financestore "github.com/dalemusser/strataclub/internal/app/store/finance"
	inventorystore "github.com/dalemusser/strataclub/internal/app/store/inventory"
	notificationstore "github.com/dalemusser/strataclub/internal/app/store/notifications"
	poststore "github.com/dalemusser/strataclub/internal/app/store/posts"
	regstore "github.com/dalemusser/strataclub/internal/app/store/registrations"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	userstore "github.com/dalemusser/strataclub/internal/app/store/users"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides the dashboard endpoint.
type Handler struct {
	users         *userstore.Store
	events        *eventstore.Store
	registrations *regstore.Store
	posts         *poststore.Store
	income        *financestore.Store
	expenditure   *financestore.Store
	inventory     *inventorystore.Store
	notifications *notificationstore.Store
	logger        *zap.Logger
	now           func() time.Time
}

// NewHandler creates a new dashboard Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		users:         userstore.New(db),
		events:        eventstore.New(db),
		registrations: regstore.New(db),
		posts:         poststore.New(db),
		income:        financestore.New(db, financestore.Income),
		expenditure:   financestore.New(db, financestore.Expenditure),
		inventory:     inventorystore.New(db),
		notifications: notificationstore.New(db),
		logger:        logger,
		now:           time.Now,
	}
}

// MountRoutes registers GET /dashboard on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Use(jwtauth.RequireRole(models.RoleAdmin))
		r.Get("/dashboard", h.Show)
	})
}

// Overview is the dashboard response body.
type Overview struct {
	Members             int64   `json:"members"`
	Admins              int64   `json:"admins"`
	Events              int64   `json:"events"`
	UpcomingEvents      int     `json:"upcomingEvents"`
	RegistrationsToday  int64   `json:"registrationsToday"`
	Posts               int64   `json:"posts"`
	Comments            int64   `json:"comments"`
	TotalIncome         float64 `json:"totalIncome"`
	TotalExpenditure    float64 `json:"totalExpenditure"`
	Balance             float64 `json:"balance"`
	InventoryItems      int     `json:"inventoryItems"`
	InventoryValue      float64 `json:"inventoryValue"`
	ActiveNotifications int     `json:"activeNotifications"`
}

// Show handles GET /api/dashboard. Any failing query fails the whole
// response; partial numbers would be misleading.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ov, err := h.overview(ctx)
	if err != nil {
		h.logger.Error("dashboard overview failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, ov)
}

func (h *Handler) overview(ctx context.Context) (Overview, error) {
	var (
		ov  Overview
		err error
	)
	now := h.now()
	today := storeutil.ISODate(now)

	if ov.Members, err = h.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return ov, err
	}
	if ov.Admins, err = h.users.CountByRole(ctx, models.RoleAdmin); err != nil {
		return ov, err
	}
	if ov.Events, err = h.events.Count(ctx); err != nil {
		return ov, err
	}
	upcoming, err := h.events.Upcoming(ctx, today)
	if err != nil {
		return ov, err
	}
	ov.UpcomingEvents = len(upcoming)

	from, to := storeutil.DayBounds(now)
	if ov.RegistrationsToday, err = h.registrations.CountCreatedBetween(ctx, from, to); err != nil {
		return ov, err
	}
	if ov.Posts, err = h.posts.Count(ctx); err != nil {
		return ov, err
	}
	if ov.Comments, err = h.posts.TotalComments(ctx); err != nil {
		return ov, err
	}

	if ov.TotalIncome, err = h.income.Total(ctx); err != nil {
		return ov, err
	}
	if ov.TotalExpenditure, err = h.expenditure.Total(ctx); err != nil {
		return ov, err
	}
	ov.Balance = ov.TotalIncome - ov.TotalExpenditure

	inv, err := h.inventory.Summarize(ctx)
	if err != nil {
		return ov, err
	}
	ov.InventoryItems, ov.InventoryValue = inv.TotalItems, inv.TotalCurrentValue

	active, err := h.notifications.Active(ctx, today)
	if err != nil {
		return ov, err
	}
	ov.ActiveNotifications = len(active)
	return ov, nil
}
