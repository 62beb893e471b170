package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// ConfirmationData feeds the registration confirmation template.
type ConfirmationData struct {
	FullName         string
	EntityTitle      string
	EntityTitleNe    string
	EntityDate       string
	EntityLocation   string
	RegistrationCode string
	VerifyURL        string
	QRDataURL        template.URL
	FromName         string
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 560px; margin: 0 auto; color: #222;">
  <h2>Registration Confirmed / दर्ता पुष्टि भयो</h2>
  <p>Dear {{.FullName}},</p>
  <p>Your registration for <strong>{{.EntityTitle}}</strong>{{if .EntityTitleNe}} ({{.EntityTitleNe}}){{end}} is confirmed.</p>
  <table cellpadding="4">
    <tr><td><strong>Date / मिति</strong></td><td>{{.EntityDate}}</td></tr>
    {{if .EntityLocation}}<tr><td><strong>Venue / स्थान</strong></td><td>{{.EntityLocation}}</td></tr>{{end}}
    <tr><td><strong>Code</strong></td><td><code>{{.RegistrationCode}}</code></td></tr>
  </table>
  <p>Present this QR code at the venue for check-in. कृपया प्रवेशका लागि यो QR कोड देखाउनुहोस्।</p>
  <p><img src="{{.QRDataURL}}" alt="{{.RegistrationCode}}" width="256" height="256"/></p>
  <p>If the image does not load, use this link: <a href="{{.VerifyURL}}">{{.VerifyURL}}</a></p>
  <p>— {{.FromName}}</p>
</body>
</html>
`))

// RenderConfirmation renders the confirmation email body.
func RenderConfirmation(data ConfirmationData) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}

// ConfirmationSubject returns the email subject line.
func ConfirmationSubject(entityTitle string) string {
	return "Registration confirmed: " + entityTitle
}

// FormatEntityDate formats an entity date for email display.
func FormatEntityDate(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}
