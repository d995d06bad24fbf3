// Package notify delivers best-effort customer notifications. Nothing in
// this package may surface an error into a request's primary transaction.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/Davve420/CRM-tester/internal/config"
)

// Mailer sends one email to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	cfg    config.SmtpConfig
	logger *zap.Logger
}

// NewSMTPMailer builds a Mailer over plain SMTP with optional auth. With
// no host configured it degrades to a logging no-op so local setups work
// without a mail relay.
func NewSMTPMailer(cfg config.SmtpConfig, logger *zap.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(m.cfg.Host) == "" {
		m.logger.Info("smtp disabled, dropping notification",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := buildMessage(m.cfg.FromAddress, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{to}, msg)
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: Support <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
