package auth

import (
	"context"
	"time"

	"teamboard-api/internal/jwt"
	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"
	"teamboard-api/pkg/config"
)

// Service handles login, token refresh and logout
type Service struct {
	users  UserService
	tokens TokenIssuer
	cache  TokenCache
	totp   config.TOTPConfig
	logger *logger.Logger
	now    func() time.Time
}

// UserService is the part of the user service auth depends on
type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	RecordLogin(ctx context.Context, userID string)
}

// TokenIssuer signs and verifies token pairs
type TokenIssuer interface {
	IssuePair(subject jwt.Subject) (jwt.TokenPair, error)
	VerifyRefresh(token string) (*jwt.Claims, error)
	AccessExpiry() time.Duration
}

// TokenCache is the blacklist and user cache
type TokenCache interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	Consume(ctx context.Context, token string, ttl time.Duration) (bool, error)
	CacheUser(ctx context.Context, snapshot *models.UserSnapshot, ttl time.Duration)
}

// Result is a freshly issued token pair and the user it was issued to
type Result struct {
	Pair jwt.TokenPair
	User *models.User
}
