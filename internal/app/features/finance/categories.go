package finance

import (
	"context"
	"errors"
	"net/http"
	"strings"

	categorystore "github.com/dalemusser/strataclub/internal/app/store/categories"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.uber.org/zap"
)

func categoryLabel(kind categorystore.Kind) string {
	if kind == categorystore.Finance {
		return "Finance"
	}
	return "Inventory"
}

// CreateCategory handles POST /api/{finance,inventory}_category.
func (h *Handler) CreateCategory(kind categorystore.Kind) http.HandlerFunc {
	store := h.categories[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Code     string `json:"code"`
			Category string `json:"category"`
			ClubID   string `json:"clubId"`
		}
		if err := jsonutil.Decode(r, &in); err != nil {
			jsonutil.BadRequest(w, "Invalid request body.")
			return
		}
		if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Category) == "" {
			jsonutil.BadRequest(w, "Code and category are required.")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		created, err := store.Create(ctx, models.Category{Code: in.Code, Category: in.Category, ClubID: in.ClubID})
		if errors.Is(err, categorystore.ErrDuplicate) {
			jsonutil.Conflict(w, categoryLabel(kind)+" Category with the same code or name already exists.")
			return
		}
		if err != nil {
			h.logger.Error("create category failed", zap.String("kind", string(kind)), zap.String("code", in.Code), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}

		h.logger.Info("category created", zap.String("kind", string(kind)), zap.String("code", created.Code))
		jsonutil.OK(w, map[string]any{
			"message": categoryLabel(kind) + " category created successfully",
			"id":      created.ID,
		})
	}
}

// ListCategories handles GET /api/{finance,inventory}_category.
func (h *Handler) ListCategories(kind categorystore.Kind) http.HandlerFunc {
	store := h.categories[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		cats, err := store.List(ctx)
		if err != nil {
			h.logger.Error("list categories failed", zap.String("kind", string(kind)), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}
		jsonutil.OK(w, cats)
	}
}
