package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidIdentifier is returned when the identifier is empty or too long.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrLookupFailed wraps storage failures other than not-found.
	ErrLookupFailed = errors.New("tenant lookup failed")
)
