package mocks

import (
	"context"
	"time"

	"teamboard-api/internal/jwt"
	"teamboard-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// TokenVerifier mocks session.TokenVerifier
type TokenVerifier struct {
	mock.Mock
}

func (m *TokenVerifier) VerifyAccess(token string) (*jwt.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*jwt.Claims)
	return claims, args.Error(1)
}

// UserCache mocks session.UserCache
type UserCache struct {
	mock.Mock
}

func (m *UserCache) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *UserCache) GetCachedUser(ctx context.Context, userID string) (*models.UserSnapshot, bool) {
	args := m.Called(ctx, userID)
	snapshot, _ := args.Get(0).(*models.UserSnapshot)
	return snapshot, args.Bool(1)
}

func (m *UserCache) CacheUser(ctx context.Context, snapshot *models.UserSnapshot, ttl time.Duration) {
	m.Called(ctx, snapshot, ttl)
}

func (m *UserCache) DefaultUserTTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// UserSource mocks session.UserSource
type UserSource struct {
	mock.Mock
}

func (m *UserSource) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
