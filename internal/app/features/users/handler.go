// Package users provides account registration, login, the member directory,
// profile editing, password reset, and sign-up email verification.
//
// Public endpoints:
//   - POST /api/register, POST /api/login
//   - POST /api/reset-password, PUT /api/reset-password/{id}
//   - POST /api/send-verification, POST /api/check-email
//
// Authenticated endpoints:
//   - GET /api/user/detail/{studentId}, PUT /api/user/detail/{id}
//   - GET /api/users/{studentId}
//
// Admin endpoints:
//   - GET /api/members, GET /api/admins, GET /api/members/count
//   - GET/PUT/DELETE /api/member/detail/{id}
package users

import (
	"time"

	"github.com/dalemusser/strataclub/internal/app/store/emailverify"
	"github.com/dalemusser/strataclub/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/strataclub/internal/app/store/users"
	"github.com/dalemusser/strataclub/internal/app/system/auditlog"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/mailer"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Config holds account policy settings.
type Config struct {
	FrontendURL   string        // base for password reset links
	AccountExpiry time.Duration // 0 leaves new accounts without an expiry date
	VerifyExpiry  time.Duration // lifetime of sign-up verification codes
}

// Handler serves the user endpoints.
type Handler struct {
	users   *userstore.Store
	verify  *emailverify.Store
	limiter *ratelimit.Store // nil disables login lockout
	audit   *auditlog.Logger // nil records nothing
	issuer  *jwtauth.Issuer
	mail    mailer.Sender
	uploads *uploads.Uploader
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler creates a users Handler. limiter and audit may be nil.
func NewHandler(db *mongo.Database, issuer *jwtauth.Issuer, mail mailer.Sender, up *uploads.Uploader, limiter *ratelimit.Store, audit *auditlog.Logger, cfg Config, logger *zap.Logger) *Handler {
	return &Handler{
		users:   userstore.New(db),
		verify:  emailverify.New(db, cfg.VerifyExpiry),
		limiter: limiter,
		audit:   audit,
		issuer:  issuer,
		mail:    mail,
		uploads: up,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}
