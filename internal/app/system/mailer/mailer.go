// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is a single outbound message. TextBody is required; HTMLBody is
// optional and sent as a multipart alternative when present.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds the SMTP connection settings.
type Config struct {
	Host string // e.g. localhost for Mailpit, email-smtp.us-east-1.amazonaws.com for SES
	Port int    // e.g. 1025 for Mailpit, 587 for SES
	User string // empty for Mailpit
	Pass string
	From string // sender address on outbound mail
}

// Mailer sends email over SMTP. A nil Mailer drops messages silently so
// handlers can treat mail as best-effort.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New creates a Mailer. Returns nil when no host is configured, which
// disables outbound mail.
func New(cfg Config, log *zap.Logger) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &Mailer{cfg: cfg, log: log}
}

// Send delivers one message. Errors are returned so callers can decide
// whether delivery failure matters for the request in flight.
func (m *Mailer) Send(msg Email) error {
	if m == nil {
		return nil
	}
	if msg.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	body := buildMessage(m.cfg.From, msg)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, body); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}

	m.log.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

const multipartBoundary = "memberhub-alt-boundary"

func buildMessage(from string, msg Email) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.TextBody)
		return []byte(b.String())
	}

	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", multipartBoundary))

	b.WriteString("--" + multipartBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.TextBody)
	b.WriteString("\r\n")

	b.WriteString("--" + multipartBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")

	b.WriteString("--" + multipartBoundary + "--\r\n")
	return []byte(b.String())
}
