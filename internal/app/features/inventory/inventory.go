package inventory

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.uber.org/zap"
)

type itemInput struct {
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Quantity      *formutil.Number `json:"quantity"`
	PurchaseDate  string           `json:"purchaseDate"`
	PurchasePrice *formutil.Number `json:"purchasePrice"`
	CurrentValue  *formutil.Number `json:"currentValue"`
	Location      string           `json:"location"`
	Condition     string           `json:"condition"`
	Remarks       string           `json:"remarks"`
}

// merge applies in over item; blank or absent values keep what item holds.
func (in itemInput) merge(item models.InventoryItem) models.InventoryItem {
	item.Name = formutil.Or(strings.TrimSpace(in.Name), item.Name)
	item.Category = formutil.Or(in.Category, item.Category)
	item.Location = formutil.Or(in.Location, item.Location)
	item.Condition = formutil.Or(in.Condition, item.Condition)
	item.Remarks = formutil.Or(in.Remarks, item.Remarks)
	if strings.TrimSpace(in.PurchaseDate) != "" {
		item.PurchaseDate = formutil.Date(in.PurchaseDate)
	}
	if in.Quantity != nil {
		item.Quantity = in.Quantity.Int()
	}
	if in.PurchasePrice != nil {
		item.PurchasePrice = in.PurchasePrice.Float64()
	}
	if in.CurrentValue != nil {
		item.CurrentValue = in.CurrentValue.Float64()
	}
	return item
}

// Create handles POST /api/inventory.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in itemInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		jsonutil.BadRequest(w, "Name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.items.Create(ctx, in.merge(models.InventoryItem{}))
	if err != nil {
		h.logger.Error("create inventory item failed", zap.String("name", in.Name), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	h.logger.Info("inventory item created", zap.String("item_id", created.ID.Hex()), zap.String("name", created.Name))
	jsonutil.Created(w, map[string]any{"message": "Inventory item created successfully", "id": created.ID})
}

// List handles GET /api/inventory[?category=].
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.items.List(ctx, category)
	if err != nil {
		h.logger.Error("list inventory failed", zap.String("category", category), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, items)
}

// Detail handles GET /api/inventory/detail/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Record not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	item, err := h.items.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("get inventory item failed", zap.String("item_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, item)
}

// Update handles PUT /api/inventory/detail/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	var in itemInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	existing, err := h.items.GetByID(ctx, id)
	if err == nil {
		err = h.items.Update(ctx, id, in.merge(*existing))
	}
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("update inventory item failed", zap.String("item_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	h.logger.Info("inventory item updated", zap.String("item_id", id.Hex()))
	jsonutil.Message(w, http.StatusOK, "Record updated successfully")
}

// Delete handles DELETE /api/inventory/detail/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Record not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.items.Delete(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("delete inventory item failed", zap.String("item_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	h.logger.Info("inventory item deleted", zap.String("item_id", id.Hex()))
	jsonutil.Message(w, http.StatusOK, "Record deleted successfully")
}

// Summary handles GET /api/inventory/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sum, err := h.items.Summarize(ctx)
	if err != nil {
		h.logger.Error("summarize inventory failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, sum)
}
