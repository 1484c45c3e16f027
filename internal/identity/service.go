package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
)

// Service implements user registration.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// RegisterOnce registers the chat user if they are not registered yet.
// Returns true when a new user row was created.
func (s *Service) RegisterOnce(ctx context.Context, chatUserID int64) (bool, error) {
	registered, err := s.repo.IsRegistered(ctx, chatUserID)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	if registered {
		return false, nil
	}

	user := &domain.User{
		ChatUserID:   chatUserID,
		RegisteredAt: s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

// RegistrationDate returns when the chat user first started the bot.
// Returns ErrUserNotFound for unknown users.
func (s *Service) RegistrationDate(ctx context.Context, chatUserID int64) (time.Time, error) {
	return s.repo.RegistrationDate(ctx, chatUserID)
}
