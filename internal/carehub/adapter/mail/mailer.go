// Package mail delivers outbound email. Delivery itself is delegated to an
// external SMTP relay; this package only assembles messages and hands them
// off. A log-only mailer is provided for development and tests.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"

	"carehub/internal/carehub"
)

// SMTPMailer sends mail through an SMTP relay with optional PLAIN auth.
type SMTPMailer struct {
	addr string // host:port
	from string
	auth smtp.Auth
}

// NewSMTPMailer creates a mailer for the relay at addr. username may be
// empty for unauthenticated relays.
func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.LastIndex(addr, ":"); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{addr: addr, from: from, auth: auth}
}

// Send delivers the message. Multipart alternative body when both text and
// HTML parts are present.
func (m *SMTPMailer) Send(ctx context.Context, msg carehub.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := buildMIME(m.from, msg)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("sending mail to relay %s: %w", m.addr, err)
	}
	return nil
}

const mimeBoundary = "carehub-alt-boundary"

func buildMIME(from string, msg carehub.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTML != "" && msg.Text != "":
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", mimeBoundary, msg.Text)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", mimeBoundary, msg.HTML)
		fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	case msg.HTML != "":
		fmt.Fprintf(&b, "Content-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", msg.HTML)
	default:
		fmt.Fprintf(&b, "Content-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", msg.Text)
	}
	return []byte(b.String())
}

// LogMailer logs messages instead of delivering them. Stands in for the
// relay in development and in tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that writes to logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message envelope. Body content is deliberately not logged:
// reset links are credentials.
func (m *LogMailer) Send(ctx context.Context, msg carehub.Message) error {
	m.logger.Info("outbound mail (not delivered)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
