package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/platform/sendgrid"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, name, link string) error
}

type sendgridMailer struct {
	log      *logger.Logger
	client   sendgrid.Client
	resetTTL time.Duration
}

// NewMailer sends through SendGrid when client is non-nil and otherwise only
// logs that a reset link was issued. resetTTL is the lifetime quoted in the
// reset email.
func NewMailer(log *logger.Logger, client sendgrid.Client, resetTTL time.Duration) Mailer {
	if client == nil {
		return &logMailer{log: log.With("service", "Mailer", "mode", "log")}
	}
	return &sendgridMailer{log: log.With("service", "Mailer"), client: client, resetTTL: resetTTL}
}

func (m *sendgridMailer) SendPasswordReset(ctx context.Context, toEmail, name, link string) error {
	res, err := m.client.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: toEmail, Name: name}},
		Subject:    "KanoonAI Password Reset",
		Text:       fmt.Sprintf("Hello %s,\n\nReset your password here: %s\n\nThe link expires in %s.", name, link, expiresIn(m.resetTTL)),
		HTML:       resetHTML(name, link, expiresIn(m.resetTTL)),
		Categories: []string{"password_reset"},
	})
	if err != nil {
		return err
	}
	m.log.Info("Password reset email sent", "status", res.StatusCode, "message_id", res.MessageID)
	return nil
}

func resetHTML(name, link, expiry string) string {
	return fmt.Sprintf(`<p>Hello %s,</p><p>Click here to reset: <a href="%s">Reset Password</a></p><p>The link expires in %s.</p>`,
		html.EscapeString(name), html.EscapeString(link), expiry)
}

// expiresIn renders ttl in whole minutes, at least one.
func expiresIn(ttl time.Duration) string {
	mins := int(ttl.Round(time.Minute) / time.Minute)
	if mins <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", mins)
}

type logMailer struct {
	log *logger.Logger
}

func (m *logMailer) SendPasswordReset(_ context.Context, toEmail, _, _ string) error {
	// The link carries a live token and is never logged.
	m.log.Warn("Email delivery not configured; reset link not sent", "email", toEmail)
	return nil
}
