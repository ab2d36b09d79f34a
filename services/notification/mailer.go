package notification

import (
	"context"
	"fmt"

	"havenly/models"
	"havenly/utils"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, email models.EmailPayload) error
}

// SendGridMailer delivers email through the SendGrid API.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, email models.EmailPayload) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(email.ToName, email.ToEmail)
	html := email.HTML
	if html == "" {
		html = "<p>" + email.Text + "</p>"
	}
	message := mail.NewSingleEmail(from, email.Subject, to, email.Text, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: failed to send email to %s: %w", email.ToEmail, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", response.StatusCode, response.Body)
	}

	utils.GetLogger().Debug("Email sent",
		zap.String("to", email.ToEmail),
		zap.Int("status", response.StatusCode),
	)
	return nil
}

// LogMailer only logs; used when no SendGrid key is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, email models.EmailPayload) error {
	utils.GetLogger().Info("Email delivery disabled, dropping message",
		zap.String("to", email.ToEmail),
		zap.String("subject", email.Subject),
	)
	return nil
}
