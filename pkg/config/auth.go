package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// AuthConfig holds token, cookie and cache settings for the auth pipeline
type AuthConfig struct {
	AccessSecret  string        `validate:"required,min=32"`
	RefreshSecret string        `validate:"required,min=32,nefield=AccessSecret"`
	Issuer        string        `validate:"required"`
	AccessTTL     time.Duration `validate:"gt=0"`
	RefreshTTL    time.Duration `validate:"gtfield=AccessTTL"`

	// UserCacheTTL is the upper bound for cached user snapshots
	UserCacheTTL time.Duration `validate:"gt=0"`

	// FailOpen keeps traffic flowing when the blacklist store is unreachable
	FailOpen bool

	CookieName        string `validate:"required"`
	RefreshCookieName string `validate:"required"`
	CookieDomain      string
	CookieSecure      bool
}

// DefaultUserCacheTTL is used when USER_CACHE_TTL is not set
const DefaultUserCacheTTL = 5 * time.Minute

// LoadAuthConfig loads auth configuration from environment variables
func LoadAuthConfig() *AuthConfig {
	return &AuthConfig{
		AccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
		RefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
		Issuer:            getEnv("JWT_ISSUER", "teamboard-api"),
		AccessTTL:         getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:        getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		UserCacheTTL:      getEnvAsDuration("USER_CACHE_TTL", DefaultUserCacheTTL),
		FailOpen:          getEnvAsBool("AUTH_FAIL_OPEN", true),
		CookieName:        getEnv("AUTH_COOKIE_NAME", "accessToken"),
		RefreshCookieName: getEnv("AUTH_REFRESH_COOKIE_NAME", "refreshToken"),
		CookieDomain:      getEnv("AUTH_COOKIE_DOMAIN", ""),
		CookieSecure:      getEnvAsBool("AUTH_COOKIE_SECURE", false),
	}
}

// Validate checks that the auth configuration can sign and verify tokens
func (c *AuthConfig) Validate() error {
	return validator.New().Struct(c)
}
