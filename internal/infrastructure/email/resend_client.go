package email

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/manorfm/accountkit/internal/domain"
	"github.com/manorfm/accountkit/internal/infrastructure/config"
	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"
)

// sendFunc submits a request to the Resend API and returns the message id
type sendFunc func(params *resend.SendEmailRequest) (string, error)

// ResendClient implements domain.SMTPClient using the Resend HTTP API
type ResendClient struct {
	from   string
	apiKey string
	send   sendFunc
	logger *zap.Logger
}

func NewResendClient(cfg *config.ResendConfig, logger *zap.Logger) *ResendClient {
	client := resend.NewClient(cfg.APIKey)
	return &ResendClient{
		from:   cfg.From,
		apiKey: cfg.APIKey,
		send: func(params *resend.SendEmailRequest) (string, error) {
			sent, err := client.Emails.Send(params)
			if err != nil {
				return "", err
			}
			return sent.Id, nil
		},
		logger: logger,
	}
}

// SendEmail delivers one HTML message through Resend
func (r *ResendClient) SendEmail(ctx context.Context, subject, htmlBody, recipient string) error {
	if r.apiKey == "" || r.from == "" {
		return domain.ErrMissingResendConfiguration
	}
	if _, err := mail.ParseAddress(recipient); err != nil {
		return domain.ErrInvalidEmail
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := r.send(&resend.SendEmailRequest{
		From:    r.from,
		To:      []string{recipient},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		r.logger.Error("Failed to send email",
			zap.String("to", recipient),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("resend: failed to send email: %w", err)
	}

	r.logger.Info("Email sent successfully",
		zap.String("to", recipient),
		zap.String("subject", subject),
		zap.String("resend_id", id))
	return nil
}
