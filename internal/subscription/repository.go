// Package subscription implements the access token lifecycle: admin-only
// issuance, claim-on-first-use, subscriber queries and the expiry sweep.
package subscription

import (
	"context"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
)

// Repository defines the interface for token data access.
type Repository interface {
	SaveToken(ctx context.Context, token *domain.Token) error
	// FindTokenByCode returns ErrTokenNotFound for unknown codes.
	FindTokenByCode(ctx context.Context, code string) (*domain.Token, error)
	UpdateToken(ctx context.Context, token *domain.Token) error
	IsValidToken(ctx context.Context, code string) (bool, error)

	// Subscriber queries treat any claimed token as a subscription;
	// expired tokens leave the roster through the sweep, not at query
	// time.
	CountSubscribers(ctx context.Context) (int, error)
	AllSubscriberIDs(ctx context.Context) ([]int64, error)
	IsSubscriber(ctx context.Context, chatUserID int64) (bool, error)

	// DeleteTokensExpiredBefore removes tokens whose expiry date is
	// strictly before cutoff. Returns the number of rows removed.
	DeleteTokensExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
