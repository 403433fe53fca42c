// Package mailer sends transactional mail over SMTP.
package mailer

import (
	"github.com/wneessen/go-mail"

	"github.com/mavidal/fintrack-be/internal/config"
)

// Sender is the mail surface the rest of the application depends on.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPMailer implements Sender against a plain SMTP submission endpoint.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTP creates an SMTPMailer from the application config.
func NewSMTP(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
}

// Send delivers a plain-text message. The connection is established per
// message; callers treat failures as non-fatal.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(m.port)}
	if m.user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.user),
			mail.WithPassword(m.pass))
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}
