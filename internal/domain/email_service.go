package domain

import "context"

// EmailService defines the interface for email operations
type EmailService interface {
	// SendUserEmail renders the template registered for emailType and sends it
	SendUserEmail(ctx context.Context, userData UserData, emailType EmailType) error

	// SendVerificationEmail sends a verification email to the user
	SendVerificationEmail(ctx context.Context, email, name, verificationURL string) error

	// SendPasswordResetEmail sends a password reset email to the user
	SendPasswordResetEmail(ctx context.Context, email, name, resetURL string) error
}
