package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"
	"teamboard-api/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, failOpen bool) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := redis.DefaultConfig()
	cfg.Host = mr.Host()
	cfg.Port = port
	cfg.ConnTimeout = 200 * time.Millisecond
	cfg.ReadTimeout = 200 * time.Millisecond
	cfg.WriteTimeout = 200 * time.Millisecond

	client := redis.New(cfg)
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService(client, logger.Discard(), Options{
		DefaultUserTTL: 5 * time.Minute,
		FailOpen:       failOpen,
	})
	return svc, mr
}

func testSnapshot() *models.UserSnapshot {
	return &models.UserSnapshot{
		ID:          "user-1",
		Email:       "ada@example.com",
		Role:        models.RoleMember,
		Status:      models.StatusActive,
		DisplayName: "Ada",
	}
}

func TestBlacklist_RoundTrip(t *testing.T) {
	svc, mr := newTestCache(t, true)
	ctx := context.Background()

	listed, err := svc.IsBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, svc.Blacklist(ctx, "token-a", 10*time.Minute))

	listed, err = svc.IsBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, listed)

	listed, err = svc.IsBlacklisted(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, listed)

	key := redisKeyForBlacklist("token-a")
	assert.NotContains(t, key, "token-a")
	assert.Equal(t, 10*time.Minute, mr.TTL(key))
}

func TestBlacklist_ExpiresWithToken(t *testing.T) {
	svc, mr := newTestCache(t, true)
	ctx := context.Background()

	require.NoError(t, svc.Blacklist(ctx, "token-a", time.Minute))
	mr.FastForward(time.Minute + time.Second)

	listed, err := svc.IsBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestBlacklist_AlreadyExpiredTokenIsNotStored(t *testing.T) {
	svc, mr := newTestCache(t, true)

	require.NoError(t, svc.Blacklist(context.Background(), "token-a", 0))
	assert.False(t, mr.Exists(redisKeyForBlacklist("token-a")))
}

func TestConsume_OnlyFirstCallerWins(t *testing.T) {
	svc, mr := newTestCache(t, true)
	ctx := context.Background()

	claimed, err := svc.Consume(ctx, "refresh-a", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 10*time.Minute, mr.TTL(redisKeyForBlacklist("refresh-a")))

	claimed, err = svc.Consume(ctx, "refresh-a", 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)

	listed, err := svc.IsBlacklisted(ctx, "refresh-a")
	require.NoError(t, err)
	assert.True(t, listed)

	require.NoError(t, svc.Blacklist(ctx, "refresh-b", time.Minute))
	claimed, err = svc.Consume(ctx, "refresh-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed, "an already revoked token cannot be consumed")

	claimed, err = svc.Consume(ctx, "refresh-c", 0)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.False(t, mr.Exists(redisKeyForBlacklist("refresh-c")))

	mr.Close()
	_, err = svc.Consume(ctx, "refresh-d", time.Minute)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestIsBlacklisted_StoreDown(t *testing.T) {
	t.Run("fail open", func(t *testing.T) {
		svc, mr := newTestCache(t, true)
		mr.Close()

		listed, err := svc.IsBlacklisted(context.Background(), "token-a")
		assert.NoError(t, err)
		assert.False(t, listed)
	})

	t.Run("fail closed", func(t *testing.T) {
		svc, mr := newTestCache(t, false)
		mr.Close()

		listed, err := svc.IsBlacklisted(context.Background(), "token-a")
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.False(t, listed)
	})
}

func TestUserCache_RoundTrip(t *testing.T) {
	svc, mr := newTestCache(t, true)
	ctx := context.Background()

	_, ok := svc.GetCachedUser(ctx, "user-1")
	assert.False(t, ok)

	svc.CacheUser(ctx, testSnapshot(), 2*time.Minute)

	cached, ok := svc.GetCachedUser(ctx, "user-1")
	require.True(t, ok)
	assert.Equal(t, testSnapshot(), cached)
	assert.Equal(t, 2*time.Minute, mr.TTL(redisKeyForUser("user-1")))
}

func TestCacheUser_TTLBoundedByDefault(t *testing.T) {
	svc, mr := newTestCache(t, true)
	ctx := context.Background()

	svc.CacheUser(ctx, testSnapshot(), time.Hour)
	assert.Equal(t, 5*time.Minute, mr.TTL(redisKeyForUser("user-1")))

	svc.CacheUser(ctx, testSnapshot(), 0)
	assert.Equal(t, 5*time.Minute, mr.TTL(redisKeyForUser("user-1")))
}

func TestGetCachedUser_MalformedEntriesAreAbsent(t *testing.T) {
	svc, mr := newTestCache(t, true)
	ctx := context.Background()

	entries := map[string]string{
		"not json":       "{{{",
		"missing status": `{"id":"user-1","email":"ada@example.com","role":"member"}`,
		"wrong id":       `{"id":"user-2","email":"ada@example.com","role":"member","status":"active"}`,
	}

	for name, payload := range entries {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, mr.Set(redisKeyForUser("user-1"), payload))

			cached, ok := svc.GetCachedUser(ctx, "user-1")
			assert.False(t, ok)
			assert.Nil(t, cached)
		})
	}
}

func TestUserCache_StoreDownIsAbsentAndSilent(t *testing.T) {
	svc, mr := newTestCache(t, true)
	ctx := context.Background()
	mr.Close()

	assert.NotPanics(t, func() { svc.CacheUser(ctx, testSnapshot(), time.Minute) })

	cached, ok := svc.GetCachedUser(ctx, "user-1")
	assert.False(t, ok)
	assert.Nil(t, cached)
}
