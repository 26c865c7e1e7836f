// Package registrations records event sign-ups and their follow-up state:
// QR code and confirmation email, attendance check-in, and payment
// confirmation.
package registrations

import (
	"time"

	eventstore "github.com/dalemusser/strataclub/internal/app/store/events"
	registrationstore "github.com/dalemusser/strataclub/internal/app/store/registrations"
	userstore "github.com/dalemusser/strataclub/internal/app/store/users"
	"github.com/dalemusser/strataclub/internal/app/system/mailer"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the registration endpoints.
type Handler struct {
	regs    *registrationstore.Store
	users   *userstore.Store
	events  *eventstore.Store
	uploads *uploads.Uploader
	mail    mailer.Sender
	logger  *zap.Logger
	now     func() time.Time

	// async runs post-registration work off the request path.
	async func(func())
}

// NewHandler creates a registrations Handler.
func NewHandler(db *mongo.Database, up *uploads.Uploader, mail mailer.Sender, logger *zap.Logger) *Handler {
	return &Handler{
		regs:    registrationstore.New(db),
		users:   userstore.New(db),
		events:  eventstore.New(db),
		uploads: up,
		mail:    mail,
		logger:  logger,
		now:     time.Now,
		async:   func(f func()) { go f() },
	}
}
