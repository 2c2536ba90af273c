package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/mail"

	gomail "github.com/go-mail/mail"
	"github.com/manorfm/accountkit/internal/domain"
	"github.com/manorfm/accountkit/internal/infrastructure/config"
	"go.uber.org/zap"
)

// mailDialer is the part of gomail.Dialer used to deliver messages
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPClient implements domain.SMTPClient over an SMTP relay
type SMTPClient struct {
	config *config.SMTPConfig
	logger *zap.Logger
	dialer mailDialer
}

func NewSMTPClient(cfg *config.SMTPConfig, logger *zap.Logger) *SMTPClient {
	return &SMTPClient{
		config: cfg,
		logger: logger,
		dialer: newDialer(cfg),
	}
}

func newDialer(cfg *config.SMTPConfig) *gomail.Dialer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}

	mode := cfg.TLSMode
	if mode == "" && cfg.UseTLS {
		mode = config.TLSModeStartTLS
	}
	switch mode {
	case config.TLSModeSSL:
		d.SSL = true
	case config.TLSModeStartTLS:
		d.StartTLSPolicy = gomail.MandatoryStartTLS
	case config.TLSModeNone:
		// plaintext even when the server advertises STARTTLS
		d.StartTLSPolicy = gomail.NoStartTLS
	default:
		d.StartTLSPolicy = gomail.OpportunisticStartTLS
	}
	return d
}

// SendEmail delivers one HTML message. Failures are returned as-is; there is no retry.
func (c *SMTPClient) SendEmail(ctx context.Context, subject, htmlBody, recipient string) error {
	if err := c.validateConfig(); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(recipient); err != nil {
		return domain.ErrInvalidEmail
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.config.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	fields := []zap.Field{
		zap.String("to", recipient),
		zap.String("subject", subject),
	}
	if requestID, ok := domain.GetRequestID(ctx); ok {
		fields = append(fields, zap.String("request_id", requestID))
	}

	if err := c.dialer.DialAndSend(m); err != nil {
		c.logger.Error("Failed to send email", append(fields, zap.Error(err))...)
		return fmt.Errorf("smtp send: %w", err)
	}

	c.logger.Info("Email sent successfully", fields...)
	return nil
}

func (c *SMTPClient) validateConfig() error {
	if c.config.Host == "" || c.config.From == "" || c.config.Port <= 0 {
		return domain.ErrMissingSMTPConfiguration
	}
	if c.config.AuthValidation && (c.config.Username == "" || c.config.Password == "") {
		return domain.ErrMissingSMTPConfiguration
	}
	return nil
}
