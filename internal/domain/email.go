package domain

import (
	"context"
	"fmt"
	"sort"
)

// EmailType selects a template and subject line from the registry
type EmailType string

const (
	EmailVerification EmailType = "email_verification"
	PasswordReset     EmailType = "password_reset"
	AccountLocked     EmailType = "account_locked"
	AccountUnlocked   EmailType = "account_unlocked"
	RoleUpgrade       EmailType = "role_upgrade"
)

// UserData holds the template variables for a single send. It must contain
// at least the recipient under the "email" key.
type UserData map[string]string

const (
	FieldEmail           = "email"
	FieldName            = "name"
	FieldVerificationURL = "verification_url"
	FieldResetURL        = "reset_url"
	FieldNewRole         = "new_role"
)

// EmailSpec describes how an email type is rendered
type EmailSpec struct {
	Subject        string
	Template       string
	RequiredFields []string
}

var emailRegistry = map[EmailType]EmailSpec{
	EmailVerification: {
		Subject:        "Verify Your Account",
		Template:       "email_verification",
		RequiredFields: []string{FieldEmail, FieldName, FieldVerificationURL},
	},
	PasswordReset: {
		Subject:        "Password Reset Instructions",
		Template:       "password_reset",
		RequiredFields: []string{FieldEmail, FieldName, FieldResetURL},
	},
	AccountLocked: {
		Subject:        "Account Locked Notification",
		Template:       "account_locked",
		RequiredFields: []string{FieldEmail, FieldName},
	},
	AccountUnlocked: {
		Subject:        "Account Unlocked Notification",
		Template:       "account_unlocked",
		RequiredFields: []string{FieldEmail, FieldName},
	},
	RoleUpgrade: {
		Subject:        "Role Upgrade Notification",
		Template:       "role_upgrade",
		RequiredFields: []string{FieldEmail, FieldName, FieldNewRole},
	},
}

// LookupEmailSpec returns the registry entry for t
func LookupEmailSpec(t EmailType) (EmailSpec, error) {
	spec, ok := emailRegistry[t]
	if !ok {
		return EmailSpec{}, fmt.Errorf("%w: %q", ErrInvalidEmailType, string(t))
	}
	return spec, nil
}

// EmailTypes returns every registered email type in lexical order
func EmailTypes() []EmailType {
	types := make([]EmailType, 0, len(emailRegistry))
	for t := range emailRegistry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Validate checks that data carries every field the email type requires.
// Fields are checked in declaration order and the first absent one is reported.
func (s EmailSpec) Validate(data UserData) error {
	for _, field := range s.RequiredFields {
		if _, ok := data[field]; !ok {
			return &MissingFieldError{Field: field}
		}
	}
	return nil
}

// TemplateRenderer converts a template name and its bindings into HTML
type TemplateRenderer interface {
	Render(ctx context.Context, templateName string, data map[string]string) (string, error)
}

// SMTPClient delivers a rendered email to a single recipient
type SMTPClient interface {
	SendEmail(ctx context.Context, subject, htmlBody, recipient string) error
}
