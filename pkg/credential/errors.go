package credential

import (
	"errors"
	"fmt"
)

// Error codes for credential processing failures. Verification
// outcomes are never errors; they are reported through Result so
// callers can branch without error handling on the common "badge is
// unsigned" and "signature invalid" paths.
const (
	// ErrCodeMalformed indicates the credential document is not valid
	// JSON or lacks the required envelope fields.
	ErrCodeMalformed = "CREDENTIAL_MALFORMED"

	// ErrCodeSigningKey indicates missing or malformed signing key
	// material.
	ErrCodeSigningKey = "CREDENTIAL_SIGNING_KEY"

	// ErrCodeUnsupportedVersion indicates the @context did not match a
	// supported Open Badges version.
	ErrCodeUnsupportedVersion = "CREDENTIAL_UNSUPPORTED_VERSION"
)

// Error represents a credential processing error with a stable code.
type Error struct {
	// Code is one of the CREDENTIAL_* error codes.
	Code string

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target error code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a new Error that wraps an underlying error.
func WrapError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Predefined sentinel errors for errors.Is checks.
var (
	// ErrMalformed is returned when a credential document cannot be parsed.
	ErrMalformed = NewError(ErrCodeMalformed, "credential document is malformed")

	// ErrSigningKey is returned when signing key material has the wrong
	// shape for Ed25519.
	ErrSigningKey = NewError(ErrCodeSigningKey, "invalid signing key material")

	// ErrUnsupportedVersion is returned when the @context matches no
	// supported Open Badges version.
	ErrUnsupportedVersion = NewError(ErrCodeUnsupportedVersion, "unsupported credential version")
)
