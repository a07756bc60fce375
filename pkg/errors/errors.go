package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a field failed a shape check
	ErrInvalidInput = errors.New("invalid input")

	// ErrCaptchaFailed indicates the reCAPTCHA token was rejected
	ErrCaptchaFailed = errors.New("captcha verification failed")
)

// FieldError is an ErrInvalidInput tied to one request field
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Reason, ErrInvalidInput)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// CaptchaError wraps the verifier failure so callers can match ErrCaptchaFailed
func CaptchaError(cause error) error {
	return fmt.Errorf("%w: %w", ErrCaptchaFailed, cause)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// AsFieldError unwraps err into a *FieldError when it carries one
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
