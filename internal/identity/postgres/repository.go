// Package postgres provides the PostgreSQL implementation of the identity repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/dkotenko/stock-sentry/internal/identity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements identity.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user row. A concurrent /start for the same chat
// user loses the insert race silently.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (chat_user_id, registered_at)
		VALUES ($1, $2)
		ON CONFLICT (chat_user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, user.ChatUserID, user.RegisteredAt); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// IsRegistered reports whether a user row exists for the chat user.
func (r *Repository) IsRegistered(ctx context.Context, chatUserID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE chat_user_id = $1)`
	if err := r.db.QueryRow(ctx, query, chatUserID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

// RegistrationDate returns the registration timestamp of the chat user.
func (r *Repository) RegistrationDate(ctx context.Context, chatUserID int64) (time.Time, error) {
	var registeredAt time.Time
	query := `SELECT registered_at FROM users WHERE chat_user_id = $1`
	err := r.db.QueryRow(ctx, query, chatUserID).Scan(&registeredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, identity.ErrUserNotFound
		}
		return time.Time{}, fmt.Errorf("get registration date: %w", err)
	}
	return registeredAt, nil
}
