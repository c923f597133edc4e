package service

import (
	"context"
	"fmt"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/middleware"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendGridSendAPI は sendgrid.Client の送信メソッド
type sendGridSendAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer は SendGrid の v3 API でメールを送る
type SendGridMailer struct {
	client   sendGridSendAPI
	from     string
	fromName string
}

func NewSendGridMailer(cfg *config.SendGridConfig) Mailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	logger := middleware.GetLogger(ctx)
	if m.from == "" {
		return fmt.Errorf("sendgrid: from address is empty")
	}
	if to == "" {
		return fmt.Errorf("sendgrid: to address is empty")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.from),
		subject,
		mail.NewEmail("", to),
		textBody,
		htmlBody,
	)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		logger.Error("Failed to send email via SendGrid", "error", err, "to", to)
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		logger.Error("SendGrid returned error status", "status", response.StatusCode, "body", response.Body, "to", to)
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}

	logger.Info("Email sent successfully via SendGrid", "to", to, "subject", subject, "status", response.StatusCode)
	return nil
}
