package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/authutil"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/mailer"
	"github.com/dalemusser/strataclub/internal/app/system/normalize"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"go.uber.org/zap"
)

// RequestPasswordReset handles POST /api/reset-password. The emailed link
// carries the user id.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	email := normalize.Email(in.Email)
	if email == "" {
		jsonutil.BadRequest(w, "email is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByEmail(ctx, email)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Email not found.")
		return
	}
	if err != nil {
		h.logger.Error("password reset: lookup failed", zap.String("email", email), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error.")
		return
	}

	resetURL := strings.TrimRight(h.cfg.FrontendURL, "/") + "/reset-password/" + u.ID.Hex()
	text, html := mailer.PasswordResetEmail(mailer.PasswordResetEmailData{
		AppName:  h.mail.FromName(),
		UserName: u.EnglishName,
		ResetURL: resetURL,
	})
	if err := h.mail.Send(mailer.Email{
		To:       u.Email,
		Subject:  "Password Reset Request",
		TextBody: text,
		HTMLBody: html,
	}); err != nil {
		h.logger.Error("password reset: send email failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error.")
		return
	}

	h.audit.PasswordResetRequested(ctx, r, u.ID, u.Email)
	jsonutil.Message(w, http.StatusOK, "Reset email sent.")
}

// ResetPassword handles PUT /api/reset-password/{id}. Knowing the user id
// is sufficient to set a new password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "User not found")
		return
	}

	var in struct {
		Password string `json:"password"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	if in.Password == "" {
		jsonutil.BadRequest(w, "password is required.")
		return
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.logger.Error("password reset: hash failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to reset password.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.users.UpdatePassword(ctx, id, hash)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("password reset: update failed", zap.String("id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to reset password.")
		return
	}

	h.logger.Info("password reset", zap.String("user_id", id.Hex()))
	h.audit.PasswordChanged(ctx, r, id)
	jsonutil.Message(w, http.StatusOK, "Password has been reset.")
}
