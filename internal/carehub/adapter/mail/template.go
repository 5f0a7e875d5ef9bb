package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"carehub/internal/carehub"
)

// PasswordResetContext fills the password-reset message templates.
type PasswordResetContext struct {
	FirstName   string
	ResetURL    string
	ExpiryHours int
}

const passwordResetSubject = "CareHub - Password Reset"

const passwordResetHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Reset Your Password</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1>CareHub Password Reset</h1>
		<p>{{if .FirstName}}Hi {{.FirstName}},{{else}}Hi there,{{end}}</p>
		<p>You requested a password reset. Please click the button below to reset your password:</p>
		<a href="{{.ResetURL}}" style="background-color: #4a6fa5; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
		<p>Or copy and paste this link into your browser:</p>
		<p style="word-break: break-all;">{{.ResetURL}}</p>
		<p>This link is valid for {{.ExpiryHours}} hour(s).</p>
		<p>If you did not request this, please ignore this email.</p>
	</div>
</body>
</html>
`

const passwordResetText = `CareHub Password Reset

{{if .FirstName}}Hi {{.FirstName}},{{else}}Hi there,{{end}}

You requested a password reset. Please use the following link to reset your password:
{{.ResetURL}}

This link is valid for {{.ExpiryHours}} hour(s).

If you did not request this, please ignore this email.
`

var (
	resetHTMLTmpl = template.Must(template.New("reset-html").Parse(passwordResetHTML))
	resetTextTmpl = texttemplate.Must(texttemplate.New("reset-text").Parse(passwordResetText))
)

// PasswordResetMessage renders the reset email for the given recipient.
func PasswordResetMessage(to string, rc PasswordResetContext) (carehub.Message, error) {
	rc.FirstName = strings.TrimSpace(rc.FirstName)
	if rc.ResetURL == "" {
		return carehub.Message{}, fmt.Errorf("reset URL is required")
	}
	if rc.ExpiryHours <= 0 {
		rc.ExpiryHours = 1
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := resetHTMLTmpl.Execute(&htmlBuf, rc); err != nil {
		return carehub.Message{}, fmt.Errorf("rendering reset html: %w", err)
	}
	if err := resetTextTmpl.Execute(&textBuf, rc); err != nil {
		return carehub.Message{}, fmt.Errorf("rendering reset text: %w", err)
	}

	return carehub.Message{
		To:      to,
		Subject: passwordResetSubject,
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}
