// Package errs holds the sentinel errors shared across the service
// packages. The HTTP layer maps them to status codes in one place.
package errs

import "errors"

var (
	// ErrUnauthenticated means no valid identity was resolved for the request.
	ErrUnauthenticated = errors.New("unauthorized")

	// ErrForbidden means the identity resolved but policy denies the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means a referenced entity id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
)
