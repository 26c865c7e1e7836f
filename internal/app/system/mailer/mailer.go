// internal/app/system/mailer/mailer.go
package mailer

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/smtp"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Send when no SMTP host is set.
var ErrNotConfigured = errors.New("mailer: smtp host not configured")

// Sender is implemented by Mailer; handlers depend on it so tests can
// capture outgoing mail.
type Sender interface {
	Send(email Email) error
	FromName() string
}

// Mailer sends emails via SMTP. smtp.SendMail upgrades to TLS with STARTTLS
// whenever the server advertises it.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	log      *zap.Logger
}

// Config holds the configuration for creating a Mailer.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// New creates a new Mailer with the given configuration.
func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		pass:     cfg.Pass,
		from:     cfg.From,
		fromName: cfg.FromName,
		log:      log,
	}
}

// FromName returns the configured sender display name.
// This is used as the application name in email templates.
func (m *Mailer) FromName() string {
	return m.fromName
}

// Attachment is a file attached to an email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Email represents an email to be sent.
type Email struct {
	To          string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Send sends an email. Failures are logged and returned; there is no retry.
func (m *Mailer) Send(email Email) error {
	if m.host == "" {
		m.log.Warn("email not sent: smtp host not configured",
			zap.String("to", email.To),
			zap.String("subject", email.Subject))
		return ErrNotConfigured
	}

	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}
	msg := buildMessage(from, email, randomBoundary)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.user != "" && m.pass != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{email.To}, msg); err != nil {
		m.log.Error("failed to send email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.Int("attachments", len(email.Attachments)))

	return nil
}

// buildMessage renders the RFC 5322 message. The body is multipart/alternative
// when HTMLBody is set, and the whole message is wrapped in multipart/mixed
// when there are attachments.
func buildMessage(from string, email Email, boundary func() string) []byte {
	var msg bytes.Buffer

	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if len(email.Attachments) == 0 {
		writeBody(&msg, email, boundary)
		return msg.Bytes()
	}

	mixed := boundary()
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", mixed))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", mixed))
	writeBody(&msg, email, boundary)
	msg.WriteString("\r\n")

	for _, a := range email.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		msg.WriteString(fmt.Sprintf("--%s\r\n", mixed))
		msg.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", ct, a.Filename))
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", a.Filename))
		msg.WriteString("\r\n")
		writeBase64Lines(&msg, a.Data)
	}
	msg.WriteString(fmt.Sprintf("--%s--\r\n", mixed))

	return msg.Bytes()
}

// writeBody writes the Content-Type header and the text/HTML body part(s).
func writeBody(msg *bytes.Buffer, email Email, boundary func() string) {
	if email.HTMLBody == "" {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.TextBody)
		return
	}

	alt := boundary()
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", alt))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", alt))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.TextBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", alt))
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", alt))
}

// writeBase64Lines writes data base64-encoded in 76-character lines.
func writeBase64Lines(msg *bytes.Buffer, data []byte) {
	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 76 {
		msg.WriteString(enc[:76])
		msg.WriteString("\r\n")
		enc = enc[76:]
	}
	msg.WriteString(enc)
	msg.WriteString("\r\n")
}

// randomBoundary generates a random boundary string for multipart emails.
func randomBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return "----=_Part_" + hex.EncodeToString(b)
}
