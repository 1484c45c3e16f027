// Package postgres provides the PostgreSQL implementation of the subscription repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/dkotenko/stock-sentry/internal/subscription"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements subscription.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveToken inserts a new token.
func (r *Repository) SaveToken(ctx context.Context, token *domain.Token) error {
	query := `
		INSERT INTO tokens (code, issued_at, expires_at, claimed_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		token.Code,
		token.IssuedAt,
		token.ExpiresAt,
		token.ClaimedBy,
	).Scan(&token.ID)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// FindTokenByCode retrieves a token by exact code match.
func (r *Repository) FindTokenByCode(ctx context.Context, code string) (*domain.Token, error) {
	query := `
		SELECT id, code, issued_at, expires_at, claimed_by
		FROM tokens
		WHERE code = $1
	`
	var token domain.Token
	err := r.db.QueryRow(ctx, query, code).Scan(
		&token.ID,
		&token.Code,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.ClaimedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscription.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &token, nil
}

// UpdateToken persists the claim binding of an existing token.
func (r *Repository) UpdateToken(ctx context.Context, token *domain.Token) error {
	query := `UPDATE tokens SET claimed_by = $2 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, token.ID, token.ClaimedBy)
	if err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return subscription.ErrTokenNotFound
	}
	return nil
}

// IsValidToken reports whether a token exists for the code.
func (r *Repository) IsValidToken(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tokens WHERE code = $1)`
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return exists, nil
}

// CountSubscribers returns the number of distinct claimed tokens.
func (r *Repository) CountSubscribers(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(DISTINCT claimed_by) FROM tokens WHERE claimed_by IS NOT NULL`
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}

// AllSubscriberIDs returns the distinct chat user ids with a claimed token.
func (r *Repository) AllSubscriberIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT DISTINCT claimed_by FROM tokens WHERE claimed_by IS NOT NULL ORDER BY claimed_by`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subscriber id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// IsSubscriber reports whether the chat user holds a claimed token.
func (r *Repository) IsSubscriber(ctx context.Context, chatUserID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tokens WHERE claimed_by = $1)`
	if err := r.db.QueryRow(ctx, query, chatUserID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check subscriber: %w", err)
	}
	return exists, nil
}

// DeleteTokensExpiredBefore removes tokens whose expiry is before cutoff.
func (r *Repository) DeleteTokensExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return result.RowsAffected(), nil
}
