package email

import (
	"fmt"

	"github.com/manorfm/accountkit/internal/domain"
	"github.com/manorfm/accountkit/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewClient returns the transport selected by cfg.EmailProvider
func NewClient(cfg *config.Config, logger *zap.Logger) (domain.SMTPClient, error) {
	switch cfg.EmailProvider {
	case config.ProviderSMTP, "":
		return NewSMTPClient(cfg.SMTP, logger), nil
	case config.ProviderResend:
		return NewResendClient(cfg.Resend, logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}
