// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"html/template"
	"strconv"
)

// PasswordResetEmailData contains the data for a password reset email.
type PasswordResetEmailData struct {
	AppName  string
	UserName string
	ResetURL string
}

// PasswordResetEmail generates both plain text and HTML versions of a password reset email.
func PasswordResetEmail(data PasswordResetEmailData) (textBody, htmlBody string) {
	textBody = "Hello " + data.UserName + ",\n\n" +
		"You requested a password reset for your " + data.AppName + " account.\n\n" +
		"Open the link below to choose a new password:\n\n" +
		data.ResetURL + "\n\n" +
		"If you did not request this, you can safely ignore this email."

	var buf bytes.Buffer
	passwordResetHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return textBody, htmlBody
}

// VerificationCodeEmailData contains the data for a sign-up verification code email.
type VerificationCodeEmailData struct {
	AppName   string
	Code      string
	ExpiryMin int
}

// VerificationCodeEmail generates both plain text and HTML versions of a verification code email.
func VerificationCodeEmail(data VerificationCodeEmailData) (textBody, htmlBody string) {
	textBody = "Your " + data.AppName + " verification code is: " + data.Code + "\n\n" +
		"This code will expire in " + strconv.Itoa(data.ExpiryMin) + " minutes.\n\n" +
		"If you did not request this, you can safely ignore this email."

	var buf bytes.Buffer
	verificationCodeHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return textBody, htmlBody
}

// RegistrationEmailData contains the data for an event registration confirmation.
type RegistrationEmailData struct {
	AppName       string
	UserName      string
	EventName     string
	EventDateFrom string
	Session       string // optional
	QRAttached    bool
}

// RegistrationEmail generates both plain text and HTML versions of a registration confirmation.
func RegistrationEmail(data RegistrationEmailData) (textBody, htmlBody string) {
	textBody = "Hello " + data.UserName + ",\n\n" +
		"You are registered for " + data.EventName
	if data.EventDateFrom != "" {
		textBody += " on " + data.EventDateFrom
	}
	textBody += ".\n"
	if data.Session != "" {
		textBody += "Session: " + data.Session + "\n"
	}
	if data.QRAttached {
		textBody += "\nPlease present the attached QR code at the venue for check-in.\n"
	}
	textBody += "\nSee you there!\n" + data.AppName

	var buf bytes.Buffer
	registrationHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return textBody, htmlBody
}

const layoutHead = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
`

const layoutFoot = `</body>
</html>`

var passwordResetHTMLTmpl = template.Must(template.New("password_reset").Parse(layoutHead + `
  <h2 style="color: #1a1a1a;">Reset your password</h2>
  <p>Hello {{.UserName}},</p>
  <p>You requested a password reset for your {{.AppName}} account.</p>
  <p style="margin: 30px 0;">
    <a href="{{.ResetURL}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Choose a new password</a>
  </p>
  <p style="color: #666; font-size: 14px;">If you did not request this, you can safely ignore this email.</p>
` + layoutFoot))

var verificationCodeHTMLTmpl = template.Must(template.New("verification_code").Parse(layoutHead + `
  <h2 style="color: #1a1a1a;">Your verification code</h2>
  <p>Use this code to finish signing up for {{.AppName}}:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 6px; margin: 24px 0;">{{.Code}}</p>
  <p style="color: #666; font-size: 14px;">This code will expire in {{.ExpiryMin}} minutes.</p>
` + layoutFoot))

var registrationHTMLTmpl = template.Must(template.New("registration").Parse(layoutHead + `
  <h2 style="color: #1a1a1a;">Registration confirmed</h2>
  <p>Hello {{.UserName}},</p>
  <p>You are registered for <strong>{{.EventName}}</strong>{{if .EventDateFrom}} on {{.EventDateFrom}}{{end}}.</p>
  {{if .Session}}<p>Session: {{.Session}}</p>{{end}}
  {{if .QRAttached}}<p>Please present the attached QR code at the venue for check-in.</p>{{end}}
  <p>See you there!<br>{{.AppName}}</p>
` + layoutFoot))
