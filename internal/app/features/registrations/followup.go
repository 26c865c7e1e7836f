package registrations

import (
	"bytes"
	"context"

	"github.com/dalemusser/strataclub/internal/app/system/mailer"
	"github.com/dalemusser/strataclub/internal/app/system/qrcode"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// followUp renders the check-in QR code, records its storage key on the
// registration and emails the registrant. Each step is best-effort.
func (h *Handler) followUp(ctx context.Context, reg models.Registration) {
	log := h.logger.With(
		zap.String("registration_id", reg.ID.Hex()),
		zap.String("student_id", reg.StudentID),
		zap.String("event_id", reg.EventID))

	user, err := h.users.GetByStudentID(ctx, reg.StudentID)
	if err != nil {
		log.Warn("registration follow-up: user lookup failed", zap.Error(err))
		return
	}

	eventName, eventDate := reg.EventName, reg.EventDateFrom
	if oid, err := primitive.ObjectIDFromHex(reg.EventID); err == nil {
		if ev, err := h.events.GetByID(ctx, oid); err == nil {
			eventName, eventDate = ev.EventName, ev.EventDateFrom
		}
	}

	png, err := qrcode.Generate(qrcode.Payload{
		Name:      user.EnglishName,
		StudentID: user.StudentID,
		Email:     user.Email,
		Gender:    user.Gender,
	})
	if err != nil {
		log.Error("registration follow-up: qr render failed", zap.Error(err))
		png = nil
	}

	if png != nil {
		path := qrcode.Path(reg.StudentID, reg.EventID)
		err := h.uploads.Store().Put(ctx, path, bytes.NewReader(png), &storage.PutOptions{ContentType: "image/png"})
		if err != nil {
			log.Error("registration follow-up: qr upload failed", zap.Error(err))
		} else if err := h.regs.SetQRCode(ctx, reg.ID, path); err != nil {
			log.Error("registration follow-up: record qr path failed", zap.Error(err))
		}
	}

	text, html := mailer.RegistrationEmail(mailer.RegistrationEmailData{
		AppName:       h.mail.FromName(),
		UserName:      user.EnglishName,
		EventName:     eventName,
		EventDateFrom: eventDate,
		Session:       reg.SelectedSession,
		QRAttached:    png != nil,
	})
	email := mailer.Email{
		To:       user.Email,
		Subject:  "Registration confirmed: " + eventName,
		TextBody: text,
		HTMLBody: html,
	}
	if png != nil {
		email.Attachments = []mailer.Attachment{{Filename: "qrcode.png", ContentType: "image/png", Data: png}}
	}
	if err := h.mail.Send(email); err != nil {
		log.Warn("registration follow-up: email failed", zap.Error(err))
		return
	}
	log.Info("registration confirmation sent", zap.Bool("qr_attached", png != nil))
}
