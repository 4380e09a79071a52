// Package notify sends best-effort email notifications to clinicians.
package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"healthquery-backend/internal/models"

	"github.com/rs/zerolog"
)

// Mailer delivers a plain-text message to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds outgoing mail server settings.
type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	m.send = m.deliver
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := net.JoinHostPort(m.cfg.Server, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Server)

	if err := m.send(addr, auth, m.cfg.Username, []string{to}, buildMessage(m.cfg.Username, to, subject, body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// deliver is smtp.SendMail with STARTTLS made mandatory when UseTLS is set.
func (m *SMTPMailer) deliver(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Server}); err != nil {
			return err
		}
	} else if m.cfg.UseTLS {
		return errors.New("smtp server does not support STARTTLS")
	}
	if ok, _ := c.Extension("AUTH"); ok && m.cfg.Username != "" {
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// NoopMailer drops every message. Used when no mail server is configured.
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, string, string, string) error { return nil }

// Notifier tells clinicians about newly assigned queries.
type Notifier struct {
	mailer Mailer
	logger zerolog.Logger
}

func NewNotifier(mailer Mailer, logger zerolog.Logger) *Notifier {
	if mailer == nil {
		mailer = NoopMailer{}
	}
	return &Notifier{
		mailer: mailer,
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

// QueryAssigned mails the clinician a short summary of q. Failures are
// logged and otherwise ignored.
func (n *Notifier) QueryAssigned(ctx context.Context, clinician *models.User, q *models.Query) {
	if clinician == nil || clinician.Email == "" {
		return
	}
	subject := fmt.Sprintf("New %s query assigned (#%d)", q.Category, q.ID)
	body := fmt.Sprintf(
		"Hello Dr. %s,\n\nA new query has been assigned to you for review.\n\nCategory: %s\nUrgency: %s\n\nPlease sign in to review it.\n",
		clinician.LastName, q.Category, q.UrgencyLevel,
	)
	if err := n.mailer.Send(ctx, clinician.Email, subject, body); err != nil {
		n.logger.Warn().Err(err).Uint("query_id", q.ID).Uint("clinician_id", clinician.ID).Msg("failed to notify clinician")
		return
	}
	n.logger.Debug().Uint("query_id", q.ID).Uint("clinician_id", clinician.ID).Msg("clinician notified")
}
