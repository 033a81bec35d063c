package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = strings.Repeat("a", 32)
	refreshSecret = strings.Repeat("r", 32)
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Auth.FailOpen)
	assert.Equal(t, DefaultUserCacheTTL, cfg.Auth.UserCacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, "accessToken", cfg.Auth.CookieName)
	assert.Equal(t, 50, cfg.Socket.MaxRoomSize)
	assert.Equal(t, 64, cfg.Socket.SendBuffer)
	assert.False(t, cfg.CSRF.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("JWT_ACCESS_TTL", "600")
	t.Setenv("USER_CACHE_TTL", "90s")
	t.Setenv("AUTH_FAIL_OPEN", "false")
	t.Setenv("SOCKET_MAX_ROOM_SIZE", "8")
	t.Setenv("AUTH_RATE_LIMIT_RPS", "0.5")

	cfg := Load()

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 90*time.Second, cfg.Auth.UserCacheTTL)
	assert.False(t, cfg.Auth.FailOpen)
	assert.Equal(t, 8, cfg.Socket.MaxRoomSize)
	assert.Equal(t, 0.5, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SOCKET_SEND_BUFFER", "lots")
	t.Setenv("JWT_REFRESH_TTL", "forever")
	t.Setenv("AUTH_FAIL_OPEN", "maybe")

	cfg := Load()

	assert.Equal(t, 64, cfg.Socket.SendBuffer)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.True(t, cfg.Auth.FailOpen)
}

func TestLoadS3Config_NilWithoutCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	assert.Nil(t, LoadS3Config())

	t.Setenv("AWS_ACCESS_KEY_ID", "key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	s3 := LoadS3Config()
	require.NotNil(t, s3)
	assert.Equal(t, "avatars", s3.AvatarPrefix)
}

func TestValidate(t *testing.T) {
	valid := func() *AppConfig {
		t.Setenv("JWT_ACCESS_SECRET", accessSecret)
		t.Setenv("JWT_REFRESH_SECRET", refreshSecret)
		return Load()
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.AccessSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("shared secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.RefreshSecret = cfg.Auth.AccessSecret
		assert.Error(t, cfg.Validate())
	})

	t.Run("refresh shorter than access", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.RefreshTTL = time.Minute
		assert.Error(t, cfg.Validate())
	})

	t.Run("csrf without secret", func(t *testing.T) {
		cfg := valid()
		cfg.CSRF.Enabled = true
		cfg.CSRF.Secret = "short"
		assert.Error(t, cfg.Validate())
	})
}
