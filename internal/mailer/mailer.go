package mailer

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Mailer delivers a one-time code to an address.
type Mailer interface {
	SendCode(to, code string) error
}

// SMTPMailer sends codes through a configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendCode(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your verification code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your verification code for Lakshmi's Kitchen is: %s. It expires in 5 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send code mail: %w", err)
	}
	return nil
}

// LogMailer logs codes instead of sending them. Used when no SMTP relay is
// configured, so registration still works in development.
type LogMailer struct{}

func (LogMailer) SendCode(to, code string) error {
	slog.Info("smtp not configured, logging verification code", "to", to, "code", code)
	return nil
}
