package subscription

import "errors"

// Service and repository errors.
var (
	// ErrTokenNotFound is returned when no token exists for a code.
	ErrTokenNotFound = errors.New("token not found")
	// ErrNotAdmin is returned when a non-admin attempts an admin-only
	// operation. Callers reply with nothing or a generic prompt, never
	// with an error message.
	ErrNotAdmin = errors.New("operation restricted to admin")
)
