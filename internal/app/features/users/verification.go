package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/store/emailverify"
	"github.com/dalemusser/strataclub/internal/app/system/inputval"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/mailer"
	"github.com/dalemusser/strataclub/internal/app/system/normalize"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// SendVerification handles POST /api/send-verification.
func (h *Handler) SendVerification(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	email := normalize.Email(in.Email)
	if !inputval.IsValidEmail(email) {
		jsonutil.BadRequest(w, "A valid email address is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	exists, err := h.users.EmailExists(ctx, email)
	if err != nil {
		h.logger.Error("send verification: lookup failed", zap.String("email", email), zap.Error(err))
		jsonutil.InternalError(w, "Failed to send verification code.")
		return
	}
	if exists {
		jsonutil.BadRequest(w, "Email already registered")
		return
	}

	v, err := h.verify.Create(ctx, email)
	if err != nil {
		h.logger.Error("send verification: create code failed", zap.String("email", email), zap.Error(err))
		jsonutil.InternalError(w, "Failed to send verification code.")
		return
	}

	text, html := mailer.VerificationCodeEmail(mailer.VerificationCodeEmailData{
		AppName:   h.mail.FromName(),
		Code:      v.Code,
		ExpiryMin: int(h.verify.Expiry().Minutes()),
	})
	if err := h.mail.Send(mailer.Email{
		To:       email,
		Subject:  "Your verification code",
		TextBody: text,
		HTMLBody: html,
	}); err != nil {
		h.logger.Error("send verification: send email failed", zap.String("email", email), zap.Error(err))
		jsonutil.InternalError(w, "Failed to send verification code.")
		return
	}

	h.audit.VerificationCodeSent(ctx, r, email)
	jsonutil.Message(w, http.StatusOK, "Verification code sent.")
}

// CheckEmail handles POST /api/check-email. Without a code it reports whether
// the address is registered; with a code it consumes a pending verification.
func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		Code  string `json:"code"`
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

	code := strings.TrimSpace(in.Code)
	if code == "" {
		exists, err := h.users.EmailExists(ctx, email)
		if err != nil {
			h.logger.Error("check email: lookup failed", zap.String("email", email), zap.Error(err))
			jsonutil.InternalError(w, "Failed to check email.")
			return
		}
		jsonutil.OK(w, map[string]bool{"exists": exists})
		return
	}

	_, err := h.verify.Consume(ctx, email, code)
	if errors.Is(err, emailverify.ErrInvalidCode) {
		jsonutil.BadRequest(w, "Invalid or expired code")
		return
	}
	if err != nil {
		h.logger.Error("check email: consume code failed", zap.String("email", email), zap.Error(err))
		jsonutil.InternalError(w, "Failed to verify code.")
		return
	}
	jsonutil.OK(w, map[string]bool{"verified": true})
}
