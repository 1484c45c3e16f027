// Package identity provides chat user registration.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
)

// ErrUserNotFound is returned when no user exists for a chat user id.
var ErrUserNotFound = errors.New("user not found")

// Repository defines the interface for user data access.
type Repository interface {
	// CreateUser inserts the user. Inserting an already registered chat
	// user is a no-op: there is at most one row per chat user id.
	CreateUser(ctx context.Context, user *domain.User) error
	IsRegistered(ctx context.Context, chatUserID int64) (bool, error)
	// RegistrationDate returns ErrUserNotFound for unknown users.
	RegistrationDate(ctx context.Context, chatUserID int64) (time.Time, error)
}
