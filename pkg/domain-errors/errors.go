package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier. Codes cross the wire
// unchanged, so renaming one is a breaking API change.
type Code string

const (
	// Generic codes shared by every feature.
	CodeInternal           Code = "internal_error"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"

	// Authorization flow codes. These mirror the OAuth2/OIDC error registry
	// where one exists and stay snake_case otherwise.
	CodeInvalidClient      Code = "invalid_client"
	CodeInvalidRedirectURI Code = "invalid_redirect_uri"
	CodeInvalidScope       Code = "invalid_scope"
	CodeNoACRRegistered    Code = "no_acr_registered"
	CodeInvalidTransaction Code = "invalid_transaction"
	CodeAuthFailed         Code = "auth_failed"
)

// Error carries a code alongside the human-readable message. Services return
// these; transports translate the code into a status line.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Unwrap for logging; callers only see the code.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode at call sites that read like
// errors.Is.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from an error, defaulting to CodeInternal for
// anything that is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
