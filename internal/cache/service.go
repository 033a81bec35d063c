package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/metrics"
	"teamboard-api/internal/models"
	"teamboard-api/pkg/config"
	"teamboard-api/pkg/redis"

	"github.com/sirupsen/logrus"
)

// NewService creates a new cache service
func NewService(store redis.Store, log *logger.Logger, opts Options) *Service {
	ttl := opts.DefaultUserTTL
	if ttl <= 0 {
		ttl = config.DefaultUserCacheTTL
	}

	return &Service{
		store:    store,
		logger:   log,
		userTTL:  ttl,
		failOpen: opts.FailOpen,
	}
}

// DefaultUserTTL returns the upper bound applied to cached snapshots
func (s *Service) DefaultUserTTL() time.Duration {
	return s.userTTL
}

// FailOpen reports the configured outage policy
func (s *Service) FailOpen() bool {
	return s.failOpen
}

// IsBlacklisted reports whether the token has been revoked.
// When the store is unreachable the result depends on the outage policy:
// fail open returns (false, nil), fail closed returns ErrStoreUnavailable.
func (s *Service) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, ErrInvalidInput
	}

	exists, err := s.store.Exists(ctx, redisKeyForBlacklist(token))
	if err != nil {
		if s.failOpen {
			metrics.BlacklistStoreFailures.WithLabelValues("open").Inc()
			s.logger.WithError(err).Warn("Blacklist store unavailable, failing open")
			return false, nil
		}
		metrics.BlacklistStoreFailures.WithLabelValues("closed").Inc()
		s.logger.WithError(err).Error("Blacklist store unavailable, failing closed")
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return exists, nil
}

// Blacklist revokes a token for ttl, which must be the token's remaining lifetime.
// A non-positive ttl means the token has already expired and nothing is stored.
func (s *Service) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return ErrInvalidInput
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.store.Set(ctx, redisKeyForBlacklist(token), blacklistSentinel, ttl); err != nil {
		s.logger.WithError(err).Error("Failed to blacklist token")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Consume blacklists a single-use token and reports whether this call did it.
// Of several concurrent callers presenting the same token exactly one gets true.
// A non-positive ttl means the token has already expired and false is returned.
func (s *Service) Consume(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	if token == "" {
		return false, ErrInvalidInput
	}
	if ttl <= 0 {
		return false, nil
	}

	claimed, err := s.store.SetNX(ctx, redisKeyForBlacklist(token), blacklistSentinel, ttl)
	if err != nil {
		s.logger.WithError(err).Error("Failed to consume token")
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return claimed, nil
}

// GetCachedUser returns the cached snapshot, or false on miss, outage or a malformed entry
func (s *Service) GetCachedUser(ctx context.Context, userID string) (*models.UserSnapshot, bool) {
	if userID == "" {
		return nil, false
	}

	var snapshot models.UserSnapshot
	err := s.store.GetJSON(ctx, redisKeyForUser(userID), &snapshot)
	switch {
	case err == nil:
	case errors.Is(err, redis.ErrNotFound):
		metrics.UserCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	default:
		metrics.UserCacheLookups.WithLabelValues("error").Inc()
		s.logger.WithFields(logrus.Fields{"userID": userID, "error": err.Error()}).Warn("Failed to read cached user")
		return nil, false
	}

	if !snapshot.Valid() || snapshot.ID != userID {
		metrics.UserCacheLookups.WithLabelValues("error").Inc()
		s.logger.WithField("userID", userID).Warn("Discarding malformed cached user")
		return nil, false
	}

	metrics.UserCacheLookups.WithLabelValues("hit").Inc()
	return &snapshot, true
}

// CacheUser stores a snapshot for ttl (or the default when ttl <= 0), capped at the default.
// Failures are logged and swallowed; the cache is an optimization.
func (s *Service) CacheUser(ctx context.Context, snapshot *models.UserSnapshot, ttl time.Duration) {
	if snapshot == nil || snapshot.ID == "" {
		return
	}
	if ttl <= 0 || ttl > s.userTTL {
		ttl = s.userTTL
	}

	if err := s.store.SetJSON(ctx, redisKeyForUser(snapshot.ID), snapshot, ttl); err != nil {
		s.logger.WithFields(logrus.Fields{"userID": snapshot.ID, "error": err.Error()}).Warn("Failed to cache user")
	}
}

// Ping checks the backing store
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
