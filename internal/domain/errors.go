package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEmailType is returned when an email type is not in the registry
	ErrInvalidEmailType = errors.New("invalid email type")

	// ErrMissingField is returned when user data lacks a field the template needs
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidEmail is returned when a recipient address cannot be parsed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrMissingSMTPConfiguration is returned when the SMTP transport is not configured
	ErrMissingSMTPConfiguration = errors.New("missing SMTP configuration")

	// ErrMissingResendConfiguration is returned when the Resend transport is not configured
	ErrMissingResendConfiguration = errors.New("missing Resend configuration")
)

// MissingFieldError identifies the user data key that was absent
type MissingFieldError struct {
	Field string
}

// Error returns the error message
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingField.Error(), e.Field)
}

// Is reports whether target is ErrMissingField
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
