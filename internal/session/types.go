package session

import (
	"context"
	"time"

	"teamboard-api/internal/jwt"
	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"

	"golang.org/x/sync/singleflight"
)

// Where a session's user snapshot came from
const (
	SourceCache = "cache"
	SourceStore = "store"
)

// Session is the outcome of a successful verification
type Session struct {
	Token           string
	Claims          *jwt.Claims
	User            *models.UserSnapshot
	Source          string
	AuthenticatedAt time.Time
}

// HasRole reports whether the session's user holds one of roles
func (s *Session) HasRole(roles ...string) bool {
	for _, role := range roles {
		if s.User.Role == role {
			return true
		}
	}
	return false
}

// SessionVerifier is the single verification capability shared by the HTTP and socket gates
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

// TokenVerifier validates access tokens
type TokenVerifier interface {
	VerifyAccess(token string) (*jwt.Claims, error)
}

// UserCache is the blacklist and snapshot cache
type UserCache interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	GetCachedUser(ctx context.Context, userID string) (*models.UserSnapshot, bool)
	CacheUser(ctx context.Context, snapshot *models.UserSnapshot, ttl time.Duration)
	DefaultUserTTL() time.Duration
}

// UserSource reads the authoritative user record
type UserSource interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// Verifier runs the token, blacklist and user checks shared by every transport
type Verifier struct {
	tokens TokenVerifier
	cache  UserCache
	users  UserSource
	logger *logger.Logger
	group  singleflight.Group
	now    func() time.Time
}

var _ SessionVerifier = (*Verifier)(nil)
