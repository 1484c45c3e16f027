package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[int64]time.Time
	createUserErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]time.Time)}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	if _, ok := m.users[user.ChatUserID]; !ok {
		m.users[user.ChatUserID] = user.RegisteredAt
	}
	return nil
}

func (m *mockRepository) IsRegistered(_ context.Context, chatUserID int64) (bool, error) {
	_, ok := m.users[chatUserID]
	return ok, nil
}

func (m *mockRepository) RegistrationDate(_ context.Context, chatUserID int64) (time.Time, error) {
	if date, ok := m.users[chatUserID]; ok {
		return date, nil
	}
	return time.Time{}, ErrUserNotFound
}

func TestService_RegisterOnce_NewUser(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	registeredAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return registeredAt }

	created, err := service.RegisterOnce(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, registeredAt, repo.users[42])
}

func TestService_RegisterOnce_ExistingUser(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.users[42] = first

	created, err := service.RegisterOnce(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, repo.users[42])
}

func TestService_RegisterOnce_RepoError(t *testing.T) {
	repo := newMockRepository()
	repo.createUserErr = errors.New("db down")
	service := NewService(repo)

	_, err := service.RegisterOnce(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create user")
}

func TestService_RegistrationDate(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	registeredAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	repo.users[42] = registeredAt

	date, err := service.RegistrationDate(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, registeredAt, date)

	_, err = service.RegistrationDate(context.Background(), 7)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
