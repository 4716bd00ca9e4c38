package mailer

import (
	"context"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer sends a single HTML email. Implementations are best-effort: callers
// other than forgot-password log the error and move on.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

// DevConsoleMailer logs instead of sending. Used when SMTP credentials are
// absent and in tests.
type DevConsoleMailer struct {
	enabled bool
}

func NewDevConsoleMailer(enabled bool) *DevConsoleMailer {
	return &DevConsoleMailer{enabled: enabled}
}

func (m *DevConsoleMailer) Send(_ context.Context, to, subject, _ string) error {
	if m.enabled {
		log.Printf("[DEV-EMAIL] to=%s subject=%q", to, subject)
	}
	return nil
}
