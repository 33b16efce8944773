// Package apperr defines the error taxonomy shared by services and
// HTTP handlers.
package apperr

import "errors"

var (
	// ErrNotFound indicates the record does not exist or is not owned
	// by the caller. Handlers map it to 404.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail indicates a unique-constraint violation on the
	// user email. Surfaced to the caller as a validation failure.
	ErrDuplicateEmail = errors.New("email already registered")
)

// ValidationError reports a missing or malformed field in a request.
// Handlers map it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation constructs a ValidationError with the given message.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
