package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	registrationstore "github.com/dalemusser/strataclub/internal/app/store/registrations"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/authz"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.uber.org/zap"
)

// Register handles POST /api/eventregister (multipart). The record is
// committed before the QR code and email are produced; failures in that
// follow-up are logged and never undo the registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonutil.BadRequest(w, "Invalid form data.")
		return
	}

	reg := models.Registration{
		StudentID:       strings.TrimSpace(r.FormValue("student_id")),
		EventID:         strings.TrimSpace(r.FormValue("event_id")),
		SelectedSession: r.FormValue("selectedSession"),
		MultipleSection: r.FormValue("multipleSection"),
		EventDateFrom:   r.FormValue("eventDateFrom"),
		EventName:       r.FormValue("eventName"),
		PaymentMethod:   r.FormValue("paymentMethod"),
	}
	if reg.StudentID == "" || reg.EventID == "" {
		jsonutil.BadRequest(w, "student_id and event_id are required.")
		return
	}
	if raw := strings.TrimSpace(r.FormValue("sectionData")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &reg.SectionData); err != nil {
			jsonutil.BadRequest(w, "Invalid sectionData format")
			return
		}
	}
	if !authz.CanActFor(r, reg.StudentID) {
		jsonutil.Forbidden(w, "You can only register yourself.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	photo, err := h.uploads.SaveOptional(ctx, r, "fpsPaymentPhoto", "payments")
	if err != nil {
		h.logger.Error("register: store payment photo failed", zap.String("student_id", reg.StudentID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to store payment photo.")
		return
	}
	if photo != nil {
		reg.FPSPaymentPhoto = photo.Path
	}

	created, err := h.regs.Create(ctx, reg)
	if err != nil {
		h.logger.Error("register for event failed",
			zap.String("student_id", reg.StudentID),
			zap.String("event_id", reg.EventID),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to register for event.")
		return
	}

	h.logger.Info("event registration created",
		zap.String("registration_id", created.ID.Hex()),
		zap.String("student_id", created.StudentID),
		zap.String("event_id", created.EventID))
	jsonutil.Created(w, map[string]any{"id": created.ID})

	bg := context.WithoutCancel(r.Context())
	h.async(func() {
		ctx, cancel := timeouts.WithTimeout(bg, timeouts.Long(), h.logger, "registration follow-up")
		defer cancel()
		h.followUp(ctx, created)
	})
}

// ByStudent handles GET /api/registrations/{studentId}.
func (h *Handler) ByStudent(w http.ResponseWriter, r *http.Request) {
	studentID := urlparam.String(r, "studentId")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	regs, err := h.regs.ByStudent(ctx, studentID)
	if err != nil {
		h.logger.Error("list registrations by student failed", zap.String("student_id", studentID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load registrations.")
		return
	}
	jsonutil.OK(w, regs)
}

// ByEvent handles GET /api/admincheckregistrations/{eventId} (admin).
func (h *Handler) ByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := urlparam.String(r, "eventId")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	regs, err := h.regs.ByEvent(ctx, eventID)
	if err != nil {
		h.logger.Error("list registrations by event failed", zap.String("event_id", eventID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load registrations.")
		return
	}
	jsonutil.OK(w, regs)
}

// Delete handles DELETE /api/registrations/{studentId}/{eventId}. Students
// may only withdraw their own registrations.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	studentID := urlparam.String(r, "studentId")
	eventID := urlparam.String(r, "eventId")

	if !authz.CanActFor(r, studentID) {
		jsonutil.Forbidden(w, "You can only cancel your own registrations.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.regs.DeleteByKey(ctx, studentID, eventID)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Registration not found")
		return
	}
	if err != nil {
		h.logger.Error("delete registration failed",
			zap.String("student_id", studentID), zap.String("event_id", eventID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete registration.")
		return
	}

	h.logger.Info("registration deleted", zap.String("student_id", studentID), zap.String("event_id", eventID))
	jsonutil.Message(w, http.StatusOK, "Registration deleted successfully")
}

// ConfirmAttendance handles PUT /api/attendance/{eventId}/{studentId} (admin).
func (h *Handler) ConfirmAttendance(w http.ResponseWriter, r *http.Request) {
	eventID := urlparam.String(r, "eventId")
	studentID := urlparam.String(r, "studentId")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.regs.ConfirmAttendance(ctx, eventID, studentID)
	switch {
	case errors.Is(err, registrationstore.ErrAlreadyConfirmed):
		jsonutil.ErrorCode(w, http.StatusConflict, "Attendance already confirmed", "ALREADY_CONFIRMED")
	case errors.Is(err, storeutil.ErrNotFound):
		jsonutil.ErrorCode(w, http.StatusNotFound, "Registration not found", "REGISTRATION_NOT_FOUND")
	case err != nil:
		h.logger.Error("confirm attendance failed",
			zap.String("student_id", studentID), zap.String("event_id", eventID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update attendance.")
	default:
		h.logger.Info("attendance confirmed", zap.String("student_id", studentID), zap.String("event_id", eventID))
		jsonutil.ErrorCode(w, http.StatusOK, "Attendance confirmed", "ATTENDANCE_CONFIRMED")
	}
}

// Status handles GET /api/registrations/status/{eventId}/{studentId}. It
// always answers 200 so clients can branch on success.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	eventID := urlparam.String(r, "eventId")
	studentID := urlparam.String(r, "studentId")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, err := h.regs.FindByKey(ctx, studentID, eventID)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.OK(w, map[string]any{
			"success":     false,
			"isConfirmed": false,
			"code":        "REGISTRATION_NOT_FOUND",
		})
		return
	}
	if err != nil {
		h.logger.Error("registration status failed",
			zap.String("student_id", studentID), zap.String("event_id", eventID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load registration status.")
		return
	}
	jsonutil.OK(w, map[string]any{
		"success":      true,
		"isConfirmed":  reg.Confirm,
		"attendance":   reg.Attendance,
		"registration": reg,
	})
}

// SetConfirm handles PUT /api/registrations/{id}/confirm (admin).
func (h *Handler) SetConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Registration not found or unchanged")
		return
	}

	var in struct {
		Confirm *bool `json:"confirm"`
	}
	if err := jsonutil.Decode(r, &in); err != nil || in.Confirm == nil {
		jsonutil.BadRequest(w, "confirm is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.regs.SetConfirm(ctx, id, *in.Confirm)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Registration not found or unchanged")
		return
	}
	if err != nil {
		h.logger.Error("set confirm failed", zap.String("registration_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update registration.")
		return
	}
	jsonutil.Message(w, http.StatusOK, "Registration updated")
}

// TodayCount handles GET /api/registrations/today/count (admin). The day is
// the current UTC calendar day.
func (h *Handler) TodayCount(w http.ResponseWriter, r *http.Request) {
	from, to := storeutil.DayBounds(h.now())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.regs.CountCreatedBetween(ctx, from, to)
	if err != nil {
		h.logger.Error("count today's registrations failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to count registrations.")
		return
	}
	jsonutil.OK(w, map[string]int64{"count": n})
}
