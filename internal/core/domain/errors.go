// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors for the POS core. Callers classify failures with errors.Is.
var (
	// ErrInvalidOperation marks malformed input: empty cart, unknown branch,
	// non-positive quantity, unsupported payment method.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound marks an operation referencing a product or branch that
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a request without a valid session.
	ErrUnauthorized = errors.New("unauthorized")
)
