package cache

import (
	"fmt"

	"teamboard-api/internal/utils"
)

// redisKeyForBlacklist keys a revoked token by its hash so raw tokens never reach Redis
func redisKeyForBlacklist(token string) string {
	return fmt.Sprintf("blacklist:%s", utils.HashToken(token))
}

// redisKeyForUser generates a Redis key for a cached user snapshot
func redisKeyForUser(userID string) string {
	return fmt.Sprintf("user:snapshot:%s", userID)
}
