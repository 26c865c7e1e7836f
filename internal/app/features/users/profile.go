package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/authz"
	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"go.uber.org/zap"
)

// DetailByStudentID handles GET /api/user/detail/{studentId}.
func (h *Handler) DetailByStudentID(w http.ResponseWriter, r *http.Request) {
	studentID := urlparam.String(r, "studentId")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByStudentID(ctx, studentID)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("get user by student id failed", zap.String("student_id", studentID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load user.")
		return
	}
	jsonutil.OK(w, u)
}

// Card handles GET /api/users/{studentId}.
func (h *Handler) Card(w http.ResponseWriter, r *http.Request) {
	studentID := urlparam.String(r, "studentId")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	card, err := h.users.Card(ctx, studentID)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("get user card failed", zap.String("student_id", studentID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load user.")
		return
	}
	jsonutil.OK(w, card)
}

// UpdateSelf handles PUT /api/user/detail/{id} (multipart). Only the owner
// or an admin may edit; role, expiry date, and access change only for admins.
func (h *Handler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if !authz.CanEditUser(r, id) {
		jsonutil.Forbidden(w, "You can only edit your own profile.")
		return
	}
	if err := r.ParseMultipartForm(uploads.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonutil.BadRequest(w, "Invalid form data.")
		return
	}

	in := profileInput{
		EnglishName: r.FormValue("english_name"),
		StudentID:   r.FormValue("student_id"),
		Email:       r.FormValue("email"),
		Gender:      r.FormValue("gender"),
		Role:        r.FormValue("role"),
		ExpiryDate:  r.FormValue("expiry_date"),
		Password:    r.FormValue("password"),
	}
	if v := r.FormValue("access"); v != "" {
		access := formutil.Bool(v)
		in.Access = &access
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	existing, err := h.users.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("update profile: lookup failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update record.")
		return
	}

	upd, msg, err := in.resolve(existing, authz.IsAdmin(r))
	if err != nil {
		h.logger.Error("update profile: hash password failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update record.")
		return
	}
	if msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}

	saved, err := h.uploads.SaveOptional(ctx, r, "icon", "icons")
	if err != nil {
		h.logger.Error("update profile: store icon failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to store icon.")
		return
	}
	if saved != nil {
		upd.Icon = &saved.Path
	}

	if !h.writeUpdate(ctx, w, id, upd) {
		if saved != nil {
			h.uploads.Remove(ctx, saved.Path)
		}
		return
	}
	if saved != nil && existing.Icon != "" && existing.Icon != saved.Path {
		h.uploads.Remove(ctx, existing.Icon)
	}
}
