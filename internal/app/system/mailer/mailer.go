// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrNoRecipient is returned when an Email has no To address.
var ErrNoRecipient = errors.New("mailer: missing recipient")

// Config holds SMTP settings. An empty Host disables sending.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	SiteName string
}

// Email is one outgoing message. HTMLBody is sent as an alternative when
// present.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends mail over SMTP.
type Mailer struct {
	cfg    Config
	dialer sender
	log    *zap.Logger
}

// New creates a mailer. Use Enabled to check whether SMTP is configured.
func New(cfg Config, logger *zap.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "Wellness Hub"
	}
	m := &Mailer{cfg: cfg, log: logger}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return m
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.dialer != nil }

// Send delivers e. Sending with no SMTP host configured is a no-op.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if !m.Enabled() {
		return nil
	}
	if e.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", e.To)
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", e.TextBody)
	if e.HTMLBody != "" {
		msg.AddAlternative("text/html", e.HTMLBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", e.To, err)
	}
	m.log.Debug("mail sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

// SendNudge mails a copy of an inactivity nudge to u.
func (m *Mailer) SendNudge(ctx context.Context, u models.User, message string) error {
	e := BuildNudgeEmail(NudgeEmailData{
		SiteName: m.cfg.SiteName,
		Name:     u.Name,
		Message:  message,
	})
	e.To = u.Email
	return m.Send(ctx, e)
}
