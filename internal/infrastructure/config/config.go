package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"

	TLSModeAuto     = "auto"
	TLSModeStartTLS = "starttls"
	TLSModeSSL      = "ssl"
	TLSModeNone     = "none"
)

// SMTPConfig holds the SMTP transport settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AuthValidation requires Username and Password to be set
	AuthValidation bool
	UseTLS         bool
	TLSMode        string
}

// ResendConfig holds the Resend API settings
type ResendConfig struct {
	APIKey string
	From   string
}

// Config holds the application configuration
type Config struct {
	Environment string

	// Email configuration
	EmailProvider string
	SMTP          *SMTPConfig
	Resend        *ResendConfig

	// Password hashing work factor
	BcryptCost int

	// Base URL used to build verification links
	ServerBaseURL string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Environment:   "development",
		EmailProvider: ProviderSMTP,
		SMTP: &SMTPConfig{
			Host:           "localhost",
			Port:           1025,
			From:           "noreply@example.com",
			AuthValidation: false,
			TLSMode:        TLSModeAuto,
		},
		Resend:        &ResendConfig{},
		BcryptCost:    12,
		ServerBaseURL: "http://localhost:8080",
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig(logger *zap.Logger) (*Config, error) {
	// Load .env from project root
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "1025"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %d outside [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	authValidation, err := strconv.ParseBool(getEnv("SMTP_AUTH_VALIDATION", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_AUTH_VALIDATION: %w", err)
	}

	useTLS, err := strconv.ParseBool(getEnv("SMTP_USE_TLS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_USE_TLS: %w", err)
	}

	tlsMode := strings.ToLower(getEnv("SMTP_TLS_MODE", TLSModeAuto))
	switch tlsMode {
	case TLSModeAuto, TLSModeStartTLS, TLSModeSSL, TLSModeNone:
	default:
		return nil, fmt.Errorf("invalid SMTP_TLS_MODE: %q", tlsMode)
	}

	provider := strings.ToLower(getEnv("EMAIL_PROVIDER", ProviderSMTP))
	if provider != ProviderSMTP && provider != ProviderResend {
		return nil, fmt.Errorf("invalid EMAIL_PROVIDER: %q", provider)
	}

	from := getEnv("SMTP_FROM", "noreply@example.com")

	cfg := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		EmailProvider: provider,
		SMTP: &SMTPConfig{
			Host:           getEnv("SMTP_HOST", "localhost"),
			Port:           smtpPort,
			Username:       getEnv("SMTP_USERNAME", ""),
			Password:       getEnv("SMTP_PASSWORD", ""),
			From:           from,
			AuthValidation: authValidation,
			UseTLS:         useTLS,
			TLSMode:        tlsMode,
		},
		Resend: &ResendConfig{
			APIKey: getEnv("RESEND_API_KEY", ""),
			From:   getEnv("RESEND_FROM", from),
		},
		BcryptCost:    bcryptCost,
		ServerBaseURL: strings.TrimRight(getEnv("SERVER_BASE_URL", "http://localhost:8080"), "/"),
	}

	logger.Debug("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("email_provider", cfg.EmailProvider),
		zap.String("smtp_host", cfg.SMTP.Host),
		zap.Int("smtp_port", cfg.SMTP.Port),
		zap.Int("bcrypt_cost", cfg.BcryptCost))

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
