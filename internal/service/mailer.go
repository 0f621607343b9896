package service

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"pdf-converter/internal/domain"
)

// SMTPMailer sends plain-text mail through the configured EMAIL_* host.
type SMTPMailer struct {
	cfg    domain.EmailConfig
	logger domain.Logger
}

// NoopMailer is used when outbound mail is not configured.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject, body string) error { return nil }

// NewMailer returns an SMTP mailer when EMAIL_HOST is set and a no-op
// otherwise.
func NewMailer(cfg domain.EmailConfig, logger domain.Logger) domain.Mailer {
	if !cfg.Enabled() {
		return NoopMailer{}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message. STARTTLS is negotiated by net/smtp when the
// server offers it and EMAIL_USE_TLS is set.
func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	from := m.cfg.User
	if from == "" {
		from = "noreply@" + m.cfg.Host
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", from, to, subject, body)
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Debug("Notification sent", "to", to, "subject", subject)
	return nil
}
