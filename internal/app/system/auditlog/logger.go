// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/strataclub/internal/app/store/audit"
	"github.com/dalemusser/strataclub/internal/app/system/network"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config fields.
const (
	DestAll = "all" // MongoDB and zap
	DestDB  = "db"
	DestLog = "log"
	DestOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for login, registration, password, and verification events.
	Auth string
	// Admin controls logging for admin actions on member accounts.
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
// A nil *Logger is valid and records nothing.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the destination configured for its category.
// Unknown categories and empty settings log everywhere.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = DestAll
	}
	if setting == DestOff {
		return
	}

	if setting == DestAll || setting == DestLog {
		l.logToZap(event)
	}
	if setting == DestAll || setting == DestDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func requestEvent(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        network.GetClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.UserID, e.Email, e.Success = &userID, email, true
	l.Log(ctx, e)
}

// LoginFailed logs a rejected login. userID is nil when no account matched.
// eventType is one of the audit.EventLoginFailed* constants or
// audit.EventLoginLockedOut.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType string, userID *primitive.ObjectID, email, reason string) {
	e := requestEvent(r, audit.CategoryAuth, eventType)
	e.UserID, e.Email, e.FailureReason = userID, email, reason
	l.Log(ctx, e)
}

// UserRegistered logs a new self-registered account.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, studentID string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventUserRegistered)
	e.UserID, e.Email, e.Success = &userID, email, true
	e.Details = map[string]string{"student_id": studentID}
	l.Log(ctx, e)
}

// PasswordResetRequested logs that a reset link was emailed.
func (l *Logger) PasswordResetRequested(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventPasswordResetRequested)
	e.UserID, e.Email, e.Success = &userID, email, true
	l.Log(ctx, e)
}

// PasswordChanged logs a password set through the reset endpoint.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventPasswordChanged)
	e.UserID, e.Success = &userID, true
	l.Log(ctx, e)
}

// VerificationCodeSent logs a sign-up code email.
func (l *Logger) VerificationCodeSent(ctx context.Context, r *http.Request, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventVerificationCodeSent)
	e.Email, e.Success = email, true
	l.Log(ctx, e)
}

// --- Admin Events ---

// MemberUpdated logs an admin edit of another account. changed lists the
// fields whose values differ.
func (l *Logger) MemberUpdated(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID, changed map[string]string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventMemberUpdated)
	e.ActorID, e.UserID, e.Success, e.Details = &actorID, &userID, true, changed
	l.Log(ctx, e)
}

// MemberDeleted logs an admin deleting an account.
func (l *Logger) MemberDeleted(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventMemberDeleted)
	e.ActorID, e.UserID, e.Email, e.Success = &actorID, &userID, email, true
	l.Log(ctx, e)
}
