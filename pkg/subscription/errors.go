package subscription

import (
	"errors"
	"fmt"
)

// ErrorClass groups failures by who is at fault; transports map it to a status code.
type ErrorClass string

const (
	ClassValidation ErrorClass = "validation"
	ClassNotFound   ErrorClass = "not_found"
	ClassProvider   ErrorClass = "provider"
	ClassInternal   ErrorClass = "internal"
)

var (
	ErrMissingField        = errors.New("missing required field")
	ErrUnknownPlan         = errors.New("unknown plan")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrProviderFailed      = errors.New("provider session creation failed")
	ErrProviderTimeout     = errors.New("provider session creation timed out")
	ErrInternal            = errors.New("internal error")
)

// Provider adapter errors. They never reach callers of Service.CreateSession directly.
var (
	ErrMissingAPIKey       = errors.New("billing provider API key is required")
	ErrMissingAPIURL       = errors.New("billing provider API URL is required")
	ErrInvalidRedirectURL  = errors.New("provider returned an invalid redirect URL")
	ErrMissingSessionID    = errors.New("provider returned no session identifier")
	ErrUnexpectedStatus    = errors.New("provider returned unexpected status")
	ErrInvalidPublicURL    = errors.New("public base URL must be an absolute http(s) URL")
	ErrNoProviderAvailable = errors.New("at least one billing provider must be configured")
)

// Error is the public failure of a session creation request.
// Error() yields only the sanitized message; the underlying cause is kept for logs.
type Error struct {
	Class   ErrorClass
	Kind    error
	Message string

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the kind sentinel of this error.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// Cause returns the raw error that triggered this failure, if any.
func (e *Error) Cause() error {
	return e.cause
}

func validationError(kind error, format string, args ...any) *Error {
	return &Error{Class: ClassValidation, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(kind error, message string) *Error {
	return &Error{Class: ClassNotFound, Kind: kind, Message: message}
}

func providerError(kind error, message string, cause error) *Error {
	return &Error{Class: ClassProvider, Kind: kind, Message: message, cause: cause}
}

func internalError(cause error) *Error {
	return &Error{Class: ClassInternal, Kind: ErrInternal, Message: "internal error", cause: cause}
}

// ClassOf returns the class of err, or ClassInternal for anything that is not an *Error.
func ClassOf(err error) ErrorClass {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ClassInternal
}

// Code returns a stable machine readable code for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrUnknownPlan):
		return "unknown_plan"
	case errors.Is(err, ErrUnsupportedProvider):
		return "unsupported_provider"
	case errors.Is(err, ErrTenantNotFound):
		return "tenant_not_found"
	case errors.Is(err, ErrProviderTimeout):
		return "provider_timeout"
	case errors.Is(err, ErrProviderFailed):
		return "provider_error"
	default:
		return "internal_error"
	}
}
