// Package notification isolates email delivery behind a capability
// interface: the engine only ever asks to "send an email", never touches
// transport details.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"zolta/internal/pkg/config"
	"zolta/internal/pkg/errs"
)

var ErrMailerDisabled = errs.New("email delivery is not enabled")

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) Mailer {
	if !cfg.Enabled {
		return &disabledMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if m.cfg.Host == "" || m.cfg.Username == "" || m.cfg.Password == "" || m.cfg.From == "" {
		return errs.New("smtp not fully configured")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	boundary := "zolta-alt-boundary"
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n"+
		"Content-Type: multipart/alternative; boundary=%q\r\n\r\n"+
		"--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n"+
		"--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n"+
		"--%s--\r\n",
		from, to, subject, boundary, boundary, textBody, boundary, htmlBody, boundary)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return errs.Wrap(err, "failed to send email")
	}
	return nil
}

// disabledMailer logs what would have been sent and reports delivery as
// unavailable, so confirmation-required bids are never silently accepted.
type disabledMailer struct{}

func (m *disabledMailer) Send(_ context.Context, to, subject, _, _ string) error {
	slog.Info("smtp disabled, dropping email", "to", to, "subject", subject)
	return ErrMailerDisabled
}
