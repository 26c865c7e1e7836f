package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/store/audit"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	userstore "github.com/dalemusser/strataclub/internal/app/store/users"
	"github.com/dalemusser/strataclub/internal/app/system/authutil"
	"github.com/dalemusser/strataclub/internal/app/system/inputval"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/network"
	"github.com/dalemusser/strataclub/internal/app/system/normalize"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.uber.org/zap"
)

type registerInput struct {
	EnglishName string `json:"english_name" validate:"required" label:"english_name"`
	StudentID   string `json:"student_id" validate:"required" label:"student_id"`
	Email       string `json:"email" validate:"required,email" label:"email"`
	Password    string `json:"password" validate:"required" label:"password"`
	Gender      string `json:"gender" validate:"required" label:"gender"`
	Icon        string `json:"icon"`
}

// Register handles POST /api/register. New accounts always get the student
// role; admins are seeded or promoted by another admin.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.BadRequest(w, res.First())
		return
	}
	if err := authutil.ValidatePassword(in.Password, in.Email, in.StudentID); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	exists, err := h.users.EmailExists(ctx, in.Email)
	if err != nil {
		h.logger.Error("register: email lookup failed", zap.String("email", in.Email), zap.Error(err))
		jsonutil.InternalError(w, "Failed to register user.")
		return
	}
	if exists {
		jsonutil.BadRequest(w, "Email already registered")
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.logger.Error("register: hash password failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to register user.")
		return
	}

	access := true
	u := models.User{
		EnglishName: in.EnglishName,
		StudentID:   in.StudentID,
		Email:       in.Email,
		Password:    hash,
		Gender:      strings.TrimSpace(in.Gender),
		Role:        models.RoleStudent,
		Icon:        strings.TrimSpace(in.Icon),
		Access:      &access,
		IPAddress:   network.GetClientIP(r),
	}
	if h.cfg.AccountExpiry > 0 {
		exp := h.now().Add(h.cfg.AccountExpiry)
		u.ExpiryDate = &exp
	}

	created, err := h.users.Create(ctx, u)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		jsonutil.BadRequest(w, "Email already registered")
		return
	}
	if err != nil {
		h.logger.Error("register: insert failed", zap.String("email", in.Email), zap.Error(err))
		jsonutil.InternalError(w, "Failed to register user.")
		return
	}

	h.logger.Info("user registered", zap.String("user_id", created.ID.Hex()), zap.String("student_id", created.StudentID))
	h.audit.UserRegistered(ctx, r, created.ID, created.Email, created.StudentID)
	jsonutil.Created(w, map[string]any{"id": created.ID})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login. Access and expiry are checked before the
// password so a disabled account answers the same for any password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		jsonutil.BadRequest(w, "Email and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if h.limiter != nil {
		d, err := h.limiter.Check(ctx, email)
		if err != nil {
			h.logger.Warn("login: rate limit check failed", zap.String("email", email), zap.Error(err))
		} else if !d.Allowed {
			h.audit.LoginFailed(ctx, r, audit.EventLoginLockedOut, nil, email, "too many failed attempts")
			jsonutil.ErrorCode(w, http.StatusTooManyRequests,
				"Too many failed login attempts. Please try again later.", "LOGIN_LOCKED")
			return
		}
	}

	u, err := h.users.GetByEmail(ctx, email)
	if errors.Is(err, storeutil.ErrNotFound) {
		h.audit.LoginFailed(ctx, r, audit.EventLoginFailedUserNotFound, nil, email, "user not found")
		jsonutil.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("login: user lookup failed", zap.String("email", email), zap.Error(err))
		jsonutil.InternalError(w, "Login failed.")
		return
	}

	if !u.HasAccess() {
		h.audit.LoginFailed(ctx, r, audit.EventLoginFailedUserDisabled, &u.ID, email, "access disabled")
		jsonutil.Forbidden(w, "Access denied")
		return
	}
	if u.IsExpired(h.now()) {
		h.audit.LoginFailed(ctx, r, audit.EventLoginFailedExpired, &u.ID, email, "account expired")
		jsonutil.Forbidden(w, "Account expired")
		return
	}

	if !authutil.CheckPassword(in.Password, u.Password) {
		if h.limiter != nil {
			if _, err := h.limiter.RecordFailure(ctx, email); err != nil {
				h.logger.Warn("login: record failure failed", zap.String("email", email), zap.Error(err))
			}
		}
		h.audit.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, &u.ID, email, "wrong password")
		jsonutil.Unauthorized(w, "Invalid credentials")
		return
	}

	if h.limiter != nil {
		if err := h.limiter.Clear(ctx, email); err != nil {
			h.logger.Warn("login: clear failures failed", zap.String("email", email), zap.Error(err))
		}
	}

	token, err := h.issuer.Sign(*u)
	if err != nil {
		h.logger.Error("login: sign token failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Login failed.")
		return
	}

	h.logger.Info("user logged in", zap.String("user_id", u.ID.Hex()))
	h.audit.LoginSuccess(ctx, r, u.ID, u.Email)
	jsonutil.OK(w, map[string]string{"token": token})
}
