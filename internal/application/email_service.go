package application

import (
	"context"

	"github.com/manorfm/accountkit/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type EmailService struct {
	renderer   domain.TemplateRenderer
	smtpClient domain.SMTPClient
	logger     *zap.Logger
}

func NewEmailService(renderer domain.TemplateRenderer, smtpClient domain.SMTPClient, logger *zap.Logger) *EmailService {
	return &EmailService{
		renderer:   renderer,
		smtpClient: smtpClient,
		logger:     logger,
	}
}

// SendUserEmail renders the template registered for emailType with userData
// and hands the result to the SMTP client. Exactly one send is attempted.
func (s *EmailService) SendUserEmail(ctx context.Context, userData domain.UserData, emailType domain.EmailType) error {
	spec, err := domain.LookupEmailSpec(emailType)
	if err != nil {
		return err
	}
	if err := spec.Validate(userData); err != nil {
		return err
	}

	dispatchID := ulid.Make().String()
	logger := s.logger.With(
		zap.String("dispatch_id", dispatchID),
		zap.String("email_type", string(emailType)))
	if requestID, ok := domain.GetRequestID(ctx); ok {
		logger = logger.With(zap.String("request_id", requestID))
	}

	html, err := s.renderer.Render(ctx, spec.Template, map[string]string(userData))
	if err != nil {
		return err
	}
	logger.Debug("Email rendered", zap.String("template", spec.Template))

	recipient := userData[domain.FieldEmail]
	if err := s.smtpClient.SendEmail(ctx, spec.Subject, html, recipient); err != nil {
		return err
	}

	logger.Info("Email dispatched", zap.String("to", recipient))
	return nil
}

// SendVerificationEmail sends the account verification email
func (s *EmailService) SendVerificationEmail(ctx context.Context, email, name, verificationURL string) error {
	return s.SendUserEmail(ctx, domain.UserData{
		domain.FieldEmail:           email,
		domain.FieldName:            name,
		domain.FieldVerificationURL: verificationURL,
	}, domain.EmailVerification)
}

// SendPasswordResetEmail sends the password reset email
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, email, name, resetURL string) error {
	return s.SendUserEmail(ctx, domain.UserData{
		domain.FieldEmail:    email,
		domain.FieldName:     name,
		domain.FieldResetURL: resetURL,
	}, domain.PasswordReset)
}

var _ domain.EmailService = (*EmailService)(nil)
