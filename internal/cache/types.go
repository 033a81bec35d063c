package cache

import (
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/pkg/redis"
)

// blacklistSentinel is the value stored under a blacklist key; only presence matters
const blacklistSentinel = "1"

// Options configures TTL and outage behaviour
type Options struct {
	// DefaultUserTTL applies when CacheUser is called without a TTL
	DefaultUserTTL time.Duration

	// FailOpen treats an unreachable store as "not blacklisted"
	FailOpen bool
}

// Service fronts Redis for token revocation and user snapshots
type Service struct {
	store    redis.Store
	logger   *logger.Logger
	userTTL  time.Duration
	failOpen bool
}
