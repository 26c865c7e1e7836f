package notifications

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.uber.org/zap"
)

type noteInput struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	ExpiryDate string `json:"expiry_date"`
}

// validDate reports whether s is a calendar date in YYYY-MM-DD form.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Create handles POST /api/notifications.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in noteInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	n := models.Notification{
		Title:      htmlsanitize.PlainText(in.Title),
		Message:    htmlsanitize.PlainText(in.Message),
		ExpiryDate: strings.TrimSpace(in.ExpiryDate),
	}
	if n.Title == "" || n.Message == "" || n.ExpiryDate == "" {
		jsonutil.BadRequest(w, "Title, message and expiry_date are required.")
		return
	}
	if !validDate(n.ExpiryDate) {
		jsonutil.BadRequest(w, "expiry_date must be YYYY-MM-DD.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.notes.Create(ctx, n)
	if err != nil {
		h.logger.Error("create notification failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	h.logger.Info("notification created", zap.String("notification_id", created.ID.Hex()), zap.String("expiry_date", created.ExpiryDate))
	jsonutil.Created(w, map[string]any{"message": "Notification created successfully", "id": created.ID})
}

// List handles GET /api/notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	notes, err := h.notes.List(ctx)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, notes)
}

// Active handles GET /api/notifications/active.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	notes, err := h.notes.Active(ctx, h.today())
	if err != nil {
		h.logger.Error("active notifications failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, notes)
}

// Detail handles GET /api/notifications/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Notification not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.notes.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Notification not found")
		return
	}
	if err != nil {
		h.logger.Error("get notification failed", zap.String("notification_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, n)
}

// Update handles PUT /api/notifications/{id}. Blank fields keep their
// stored values.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Notification not found")
		return
	}
	var in noteInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	expiry := strings.TrimSpace(in.ExpiryDate)
	if expiry != "" && !validDate(expiry) {
		jsonutil.BadRequest(w, "expiry_date must be YYYY-MM-DD.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	existing, err := h.notes.GetByID(ctx, id)
	if err == nil {
		existing.Title = formutil.Or(htmlsanitize.PlainText(in.Title), existing.Title)
		existing.Message = formutil.Or(htmlsanitize.PlainText(in.Message), existing.Message)
		existing.ExpiryDate = formutil.Or(expiry, existing.ExpiryDate)
		err = h.notes.Update(ctx, id, *existing)
	}
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Notification not found")
		return
	}
	if err != nil {
		h.logger.Error("update notification failed", zap.String("notification_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	h.logger.Info("notification updated", zap.String("notification_id", id.Hex()))
	jsonutil.Message(w, http.StatusOK, "Notification updated successfully")
}

// Delete handles DELETE /api/notifications/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Notification not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.notes.Delete(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Notification not found")
		return
	}
	if err != nil {
		h.logger.Error("delete notification failed", zap.String("notification_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	h.logger.Info("notification deleted", zap.String("notification_id", id.Hex()))
	jsonutil.Message(w, http.StatusOK, "Notification deleted successfully")
}
