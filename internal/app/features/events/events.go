package events

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/cache"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.uber.org/zap"
)

const posterPrefix = "events"

// eventDetail is an event with the public URL of its poster.
type eventDetail struct {
	models.Event
	EventPosterURL string `json:"eventPosterUrl"`
}

// Create handles POST /api/eventnew (multipart, admin).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxMemory); err != nil {
		jsonutil.BadRequest(w, "Event poster is required")
		return
	}

	e, err := applyForm(r, models.Event{CanRegister: true})
	if errors.Is(err, errBadSections) {
		jsonutil.BadRequest(w, "Invalid sections format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	saved, err := h.uploads.Save(ctx, r, "eventPoster", posterPrefix)
	if errors.Is(err, uploads.ErrNoFile) {
		jsonutil.BadRequest(w, "Event poster is required")
		return
	}
	if err != nil {
		h.logger.Error("create event: store poster failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to store event poster.")
		return
	}
	e.EventPoster = saved.Path
	e.FilePath = h.uploads.URL(saved.Path)
	e.FileType = saved.ContentType

	created, err := h.events.Create(ctx, e)
	if err != nil {
		h.uploads.Remove(ctx, saved.Path)
		h.logger.Error("create event failed", zap.String("event_name", e.EventName), zap.Error(err))
		jsonutil.InternalError(w, "Failed to create event.")
		return
	}
	h.invalidate(ctx)

	h.logger.Info("event created", zap.String("event_id", created.ID.Hex()), zap.String("event_name", created.EventName))
	jsonutil.Created(w, map[string]any{"message": "Event created successfully", "id": created.ID})
}

// Update handles PUT /api/event/{id} (multipart, admin). The poster is
// replaced only when a new file is uploaded.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Event not found")
		return
	}
	if err := r.ParseMultipartForm(uploads.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonutil.BadRequest(w, "Invalid form data.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	existing, err := h.events.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.logger.Error("update event: lookup failed", zap.String("event_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update event.")
		return
	}

	e, err := applyForm(r, *existing)
	if errors.Is(err, errBadSections) {
		jsonutil.BadRequest(w, "Invalid sections format")
		return
	}

	saved, err := h.uploads.SaveOptional(ctx, r, "eventPoster", posterPrefix)
	if err != nil {
		h.logger.Error("update event: store poster failed", zap.String("event_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to store event poster.")
		return
	}
	if saved != nil {
		e.EventPoster = saved.Path
		e.FilePath = h.uploads.URL(saved.Path)
		e.FileType = saved.ContentType
	}

	err = h.events.Update(ctx, id, e)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.logger.Error("update event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update event.")
		return
	}
	if saved != nil && existing.EventPoster != saved.Path {
		h.uploads.Remove(ctx, existing.EventPoster)
	}
	h.invalidate(ctx)

	h.logger.Info("event updated", zap.String("event_id", id.Hex()))
	jsonutil.Message(w, http.StatusOK, "Event updated successfully")
}

// Delete handles DELETE /api/event/{id} (admin).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Record not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.events.Delete(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("delete event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete event.")
		return
	}
	h.uploads.Remove(ctx, deleted.EventPoster)
	h.invalidate(ctx)

	h.logger.Info("event deleted", zap.String("event_id", id.Hex()))
	jsonutil.Message(w, http.StatusOK, "Record deleted successfully")
}

// Detail handles GET /api/event/detail/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Event not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.events.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load event.")
		return
	}
	jsonutil.OK(w, eventDetail{Event: *e, EventPosterURL: h.uploads.URL(e.EventPoster)})
}

// List handles GET /api/events?page=&perPage=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := urlparam.Paging(r)
	if !ok {
		jsonutil.BadRequest(w, "Page and perPage must be positive integers.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, total, err := h.events.List(ctx, page, perPage)
	if err != nil {
		h.logger.Error("list events failed", zap.Int64("page", page), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, map[string]any{
		"events":     events,
		"page":       page,
		"total":      total,
		"perPage":    perPage,
		"totalPages": storeutil.TotalPages(total, perPage),
	})
}

// Home handles GET /api/homeevent.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var events []models.Event
	if !h.cache.GetJSON(ctx, cache.KeyHomeEvents, &events) {
		var err error
		events, err = h.events.Latest(ctx, homeEventCount)
		if err != nil {
			h.logger.Error("home events failed", zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}
		h.cache.SetJSON(ctx, cache.KeyHomeEvents, events)
	}
	jsonutil.OK(w, map[string]any{"events": events})
}

// Upcoming handles GET /api/upcomingevents.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	today := h.today()
	key := upcomingKey(today)

	var events []models.Event
	if !h.cache.GetJSON(ctx, key, &events) {
		var err error
		events, err = h.events.Upcoming(ctx, today)
		if err != nil {
			h.logger.Error("upcoming events failed", zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}
		h.cache.SetJSON(ctx, key, events)
	}
	jsonutil.OK(w, map[string]any{"upcomingEvents": events})
}

// SetCanRegister handles PUT /api/event/{id}/can-register (admin).
func (h *Handler) SetCanRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Event not found")
		return
	}

	var in struct {
		CanRegister *bool `json:"canRegister"`
	}
	if err := jsonutil.Decode(r, &in); err != nil || in.CanRegister == nil {
		jsonutil.BadRequest(w, "canRegister is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.events.SetCanRegister(ctx, id, *in.CanRegister)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.logger.Error("set can-register failed", zap.String("event_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update event.")
		return
	}
	h.invalidate(ctx)

	jsonutil.OK(w, map[string]any{"message": "Registration status updated", "canRegister": *in.CanRegister})
}
