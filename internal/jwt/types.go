// internal/jwt/types.go
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token types carried in the "typ" claim
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// TokenPair represents both access and refresh tokens
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	TokenType        string
	ExpiresIn        int64
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Subject is the identity a token pair is issued for
type Subject struct {
	UserID string
	Email  string
	Role   string
}

// Claims represents the JWT claims carried by access and refresh tokens
type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Remaining returns how long the token stays valid after now (never negative)
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Config holds secrets and lifetimes for the token service
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// JWTService provides JWT token generation and validation
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}
