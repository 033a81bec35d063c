package session

import (
	"context"
	"errors"
	"time"

	"teamboard-api/internal/jwt"
	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"
	"teamboard-api/internal/user"
	"teamboard-api/pkg/status"

	"github.com/sirupsen/logrus"
)

// NewVerifier creates a verifier over the token codec, cache and primary store
func NewVerifier(tokens TokenVerifier, cache UserCache, users UserSource, log *logger.Logger) *Verifier {
	return &Verifier{
		tokens: tokens,
		cache:  cache,
		users:  users,
		logger: log,
		now:    time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Verify authenticates token and resolves its user.
// Steps run strictly in order: blacklist, signature and claims, user lookup, status.
// Every failure is an *AuthError.
func (v *Verifier) Verify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, reject(status.CodeNoToken, nil)
	}

	revoked, err := v.cache.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, reject(status.CodeServiceUnavailable, err)
	}
	if revoked {
		return nil, reject(status.CodeRevoked, nil)
	}

	claims, err := v.tokens.VerifyAccess(token)
	if err != nil {
		return nil, reject(tokenReason(err), err)
	}

	snapshot, source, err := v.resolveUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	if !snapshot.IsActive() {
		return nil, reject(status.CodeAccountInactive, nil)
	}

	return &Session{
		Token:           token,
		Claims:          claims,
		User:            snapshot,
		Source:          source,
		AuthenticatedAt: v.now(),
	}, nil
}

// resolveUser reads the snapshot from cache, falling back to the primary store.
// Concurrent misses for one user share a single store read.
func (v *Verifier) resolveUser(ctx context.Context, claims *jwt.Claims) (*models.UserSnapshot, string, error) {
	if snapshot, ok := v.cache.GetCachedUser(ctx, claims.UserID); ok {
		return snapshot, SourceCache, nil
	}

	result, err, _ := v.group.Do(claims.UserID, func() (interface{}, error) {
		return v.users.GetUserByID(context.WithoutCancel(ctx), claims.UserID)
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", reject(status.CodeUserNotFound, err)
		}
		v.logger.WithFields(logrus.Fields{
			"userID": claims.UserID,
			"error":  err.Error(),
		}).Error("Primary store lookup failed during authentication")
		return nil, "", reject(status.CodeServiceUnavailable, err)
	}

	snapshot := result.(*models.User).Snapshot()

	ttl := v.cache.DefaultUserTTL()
	if remaining := claims.Remaining(v.now()); remaining < ttl {
		ttl = remaining
	}
	if ttl > 0 {
		v.cache.CacheUser(ctx, snapshot, ttl)
	}

	return snapshot, SourceStore, nil
}

// tokenReason maps codec errors onto rejection codes
func tokenReason(err error) status.Code {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return status.CodeTokenExpired
	case errors.Is(err, jwt.ErrTokenNotYetValid):
		return status.CodeTokenNotYetValid
	default:
		return status.CodeInvalidToken
	}
}

// Describe returns log fields for a session without the raw token
func Describe(s *Session) logrus.Fields {
	return logrus.Fields{
		"userID": s.User.ID,
		"role":   s.User.Role,
		"source": s.Source,
	}
}
