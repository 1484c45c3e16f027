package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/google/uuid"
)

// Tokens are valid for one calendar month from issuance, and the sweep
// keeps expired tokens around for one more month before deleting them.
const (
	validityMonths  = 1
	retentionMonths = 1
)

// Service is the token authority.
type Service struct {
	repo    Repository
	adminID int64
	now     func() time.Time
}

// NewService creates a new subscription service. adminID is the only chat
// user allowed to issue tokens.
func NewService(repo Repository, adminID int64) *Service {
	return &Service{
		repo:    repo,
		adminID: adminID,
		now:     time.Now,
	}
}

// IssueToken generates and persists a fresh unclaimed token. Only the
// admin may issue; everyone else gets ErrNotAdmin.
func (s *Service) IssueToken(ctx context.Context, requesterID int64) (*domain.Token, error) {
	if requesterID != s.adminID {
		return nil, ErrNotAdmin
	}

	now := s.now().UTC()
	token := &domain.Token{
		Code:      newCode(),
		IssuedAt:  now,
		ExpiresAt: now.AddDate(0, validityMonths, 0),
	}

	if err := s.repo.SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}

	recordTokenIssued()
	slog.Info("token issued", "code", token.Code, "expires_at", token.ExpiresAt)
	return token, nil
}

// newCode builds an opaque short code from a fresh random UUID. Collisions
// are treated as negligible and not checked.
func newCode() string {
	compact := strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.TokenCodePrefix + compact[:8]
}

// LookupToken finds a token by exact code match.
func (s *Service) LookupToken(ctx context.Context, code string) (*domain.Token, error) {
	return s.repo.FindTokenByCode(ctx, code)
}

// ClaimResult is the outcome of a claim attempt. Token is nil only for
// ClaimOutcomeInvalid.
type ClaimResult struct {
	Outcome domain.ClaimOutcome
	Token   *domain.Token
}

// ExpiryVisibleTo reports whether the expiry date may be disclosed to the
// requester: only the admin and the token's own holder get to see it.
func (r *ClaimResult) ExpiryVisibleTo(requesterID, adminID int64) bool {
	if r.Token == nil {
		return false
	}
	return requesterID == adminID || r.Token.IsClaimedBy(requesterID)
}

// Claim attempts to bind the code to the requester. The binding happens at
// most once: re-sending your own code is a no-op, someone else's code is
// never reassigned, the admin and existing subscribers never consume a
// fresh token. The repository is written only when the binding actually
// changes.
func (s *Service) Claim(ctx context.Context, code string, requesterID int64) (*ClaimResult, error) {
	valid, err := s.repo.IsValidToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	if !valid {
		return &ClaimResult{Outcome: domain.ClaimOutcomeInvalid}, nil
	}

	token, err := s.repo.FindTokenByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return &ClaimResult{Outcome: domain.ClaimOutcomeInvalid}, nil
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if token.IsClaimed() {
		if token.IsClaimedBy(requesterID) {
			return &ClaimResult{Outcome: domain.ClaimOutcomeAlreadyYours, Token: token}, nil
		}
		return &ClaimResult{Outcome: domain.ClaimOutcomeBelongsToOther, Token: token}, nil
	}

	if requesterID == s.adminID {
		return &ClaimResult{Outcome: domain.ClaimOutcomeAdminBypass, Token: token}, nil
	}

	subscribed, err := s.repo.IsSubscriber(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("check subscriber: %w", err)
	}
	if subscribed {
		return &ClaimResult{Outcome: domain.ClaimOutcomeAlreadySubscribed, Token: token}, nil
	}

	token.ClaimedBy = &requesterID
	if err := s.repo.UpdateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("update token: %w", err)
	}

	recordTokenClaimed()
	slog.Info("token claimed", "code", token.Code, "chat_user_id", requesterID)
	return &ClaimResult{Outcome: domain.ClaimOutcomeClaimed, Token: token}, nil
}

// IsSubscriber reports whether the chat user holds a claimed token.
func (s *Service) IsSubscriber(ctx context.Context, chatUserID int64) (bool, error) {
	return s.repo.IsSubscriber(ctx, chatUserID)
}

// SubscriberCount returns the number of distinct subscribers.
func (s *Service) SubscriberCount(ctx context.Context) (int, error) {
	return s.repo.CountSubscribers(ctx)
}

// AllSubscriberIDs returns the distinct chat user ids holding a claimed
// token. Used as the fan-out roster.
func (s *Service) AllSubscriberIDs(ctx context.Context) ([]int64, error) {
	return s.repo.AllSubscriberIDs(ctx)
}

// SweepExpired deletes tokens that expired more than the retention period
// before asOf. Idempotent; deleting zero rows is not an error.
func (s *Service) SweepExpired(ctx context.Context, asOf time.Time) error {
	cutoff := asOf.UTC().AddDate(0, -retentionMonths, 0)

	deleted, err := s.repo.DeleteTokensExpiredBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete expired tokens: %w", err)
	}

	if deleted > 0 {
		recordTokensSwept(deleted)
		slog.Info("expired tokens swept", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}
