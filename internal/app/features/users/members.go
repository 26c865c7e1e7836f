package users

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	userstore "github.com/dalemusser/strataclub/internal/app/store/users"
	"github.com/dalemusser/strataclub/internal/app/system/authutil"
	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/app/system/inputval"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/normalize"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Members handles GET /api/members.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, models.RoleStudent, "students")
}

// Admins handles GET /api/admins.
func (h *Handler) Admins(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, models.RoleAdmin, "admins")
}

func (h *Handler) listByRole(w http.ResponseWriter, r *http.Request, role, key string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.users.ListByRole(ctx, role)
	if err != nil {
		h.logger.Error("list users failed", zap.String("role", role), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load users.")
		return
	}
	jsonutil.OK(w, map[string]any{key: list, "total": len(list)})
}

// MemberCount handles GET /api/members/count.
func (h *Handler) MemberCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		h.logger.Error("count members failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to count members.")
		return
	}
	jsonutil.OK(w, map[string]int64{"count": n})
}

// Detail handles GET /api/member/detail/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Record not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("get member failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load member.")
		return
	}
	jsonutil.OK(w, u)
}

// ExpiryNone in expiry_date removes an account's expiry.
const ExpiryNone = "none"

// profileInput carries the editable profile fields. Blank values fall back
// to the stored record.
type profileInput struct {
	EnglishName string `json:"english_name"`
	StudentID   string `json:"student_id"`
	Email       string `json:"email"`
	Gender      string `json:"gender"`
	Role        string `json:"role"`
	ExpiryDate  string `json:"expiry_date"`
	Access      *bool  `json:"access"`
	Password    string `json:"password"`
}

// resolve merges in over existing. Student ID, role, expiry date, and access
// are only taken when privileged is set. msg is a client-facing message for
// invalid input; err reports a hashing failure.
func (in profileInput) resolve(existing *models.User, privileged bool) (out userstore.UpdateInput, msg string, err error) {
	out = userstore.UpdateInput{
		EnglishName: formutil.Or(in.EnglishName, existing.EnglishName),
		StudentID:   existing.StudentID,
		Email:       formutil.Or(in.Email, existing.Email),
		Gender:      formutil.Or(in.Gender, existing.Gender),
		Role:        existing.Role,
		ExpiryDate:  existing.ExpiryDate,
	}

	if privileged {
		out.StudentID = formutil.Or(in.StudentID, existing.StudentID)
		if strings.TrimSpace(in.Role) != "" {
			if !inputval.IsValidRole(in.Role) {
				return out, "role must be one of: student, admin.", nil
			}
			out.Role = in.Role
		}
		switch v := strings.TrimSpace(in.ExpiryDate); {
		case v == "":
		case strings.EqualFold(v, ExpiryNone):
			out.ExpiryDate = nil
			out.ClearExpiry = true
		default:
			t := formutil.Date(v)
			if t.IsZero() {
				return out, `expiry_date must be a date in YYYY-MM-DD format or "none".`, nil
			}
			out.ExpiryDate = &t
		}
		out.Access = in.Access
	}

	if !inputval.IsValidEmail(out.Email) {
		return out, "A valid email address is required.", nil
	}

	if in.Password != "" {
		if verr := authutil.ValidatePassword(in.Password, out.Email, out.StudentID); verr != nil {
			return out, verr.Error(), nil
		}
		hash, herr := authutil.HashPassword(in.Password)
		if herr != nil {
			return out, "", herr
		}
		out.PasswordHash = &hash
	}
	return out, "", nil
}

// UpdateMember handles PUT /api/member/detail/{id}.
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Record not found")
		return
	}

	var in profileInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.users.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("update member: lookup failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update record.")
		return
	}

	upd, msg, err := in.resolve(existing, true)
	if err != nil {
		h.logger.Error("update member: hash password failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update record.")
		return
	}
	if msg != "" {
		jsonutil.BadRequest(w, msg)
		return
	}

	if h.writeUpdate(ctx, w, id, upd) {
		if actor, ok := jwtauth.ClaimsFromContext(r.Context()); ok {
			h.audit.MemberUpdated(ctx, r, actor.User.ID, id, changedFields(existing, upd))
		}
	}
}

// changedFields lists the security-relevant fields upd changes on existing.
// Password values are never recorded.
func changedFields(existing *models.User, upd userstore.UpdateInput) map[string]string {
	changed := map[string]string{}
	if upd.Role != existing.Role {
		changed["role"] = existing.Role + " -> " + upd.Role
	}
	if normalize.Email(upd.Email) != existing.Email {
		changed["email"] = existing.Email + " -> " + normalize.Email(upd.Email)
	}
	if sid := normalize.StudentID(upd.StudentID); sid != existing.StudentID {
		changed["student_id"] = existing.StudentID + " -> " + sid
	}
	if upd.ClearExpiry && existing.ExpiryDate != nil {
		changed["expiry_date"] = "cleared"
	}
	if upd.Access != nil && *upd.Access != existing.HasAccess() {
		changed["access"] = strconv.FormatBool(*upd.Access)
	}
	if upd.PasswordHash != nil {
		changed["password"] = "changed"
	}
	return changed
}

// writeUpdate applies upd and writes the response. It reports whether the
// update was stored.
func (h *Handler) writeUpdate(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID, upd userstore.UpdateInput) bool {
	err := h.users.Update(ctx, id, upd)
	switch {
	case errors.Is(err, storeutil.ErrNotFound):
		jsonutil.NotFound(w, "Record not found")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		jsonutil.BadRequest(w, "Email already registered")
	case err != nil:
		h.logger.Error("update user failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update record.")
	default:
		h.logger.Info("user updated", zap.String("id", id.Hex()))
		jsonutil.Message(w, http.StatusOK, "Record updated successfully")
		return true
	}
	return false
}

// DeleteMember handles DELETE /api/member/detail/{id}.
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Record not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	existing, err := h.users.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("delete member: lookup failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete record.")
		return
	}

	err = h.users.Delete(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("delete member failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete record.")
		return
	}

	h.logger.Info("user deleted", zap.String("id", id.Hex()))
	if actor, ok := jwtauth.ClaimsFromContext(r.Context()); ok {
		h.audit.MemberDeleted(ctx, r, actor.User.ID, id, existing.Email)
	}
	jsonutil.Message(w, http.StatusOK, "Record deleted successfully")
}
