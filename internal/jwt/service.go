// internal/jwt/service.go
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// NewJWTService creates a new JWT service signing access and refresh tokens with distinct secrets
func NewJWTService(cfg Config) (*JWTService, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, fmt.Errorf("%w: both signing secrets are required", ErrInvalidConfig)
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrInvalidConfig)
	}
	if cfg.AccessExpiry <= 0 || cfg.RefreshExpiry <= 0 {
		return nil, fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidConfig)
	}

	return &JWTService{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		issuer:        cfg.Issuer,
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		now:           time.Now,
	}, nil
}

// WithClock replaces the time source, used by tests
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// AccessExpiry returns the configured access token lifetime
func (s *JWTService) AccessExpiry() time.Duration {
	return s.accessExpiry
}

// generateToken creates a signed token of the given type
func (s *JWTService) generateToken(subject Subject, tokenType string, secret []byte, expiry time.Duration, now time.Time) (string, error) {
	claims := Claims{
		UserID:    subject.UserID,
		Email:     subject.Email,
		Role:      subject.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   subject.UserID,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

// IssuePair creates both access and refresh tokens for a subject
func (s *JWTService) IssuePair(subject Subject) (TokenPair, error) {
	if subject.UserID == "" || subject.Email == "" || subject.Role == "" {
		return TokenPair{}, fmt.Errorf("%w: subject is incomplete", ErrInvalidToken)
	}

	now := s.now()

	accessToken, err := s.generateToken(subject, TypeAccess, s.accessSecret, s.accessExpiry, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateToken(subject, TypeRefresh, s.refreshSecret, s.refreshExpiry, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(s.accessExpiry.Seconds()),
		AccessExpiresAt:  now.Add(s.accessExpiry),
		RefreshExpiresAt: now.Add(s.refreshExpiry),
	}, nil
}

// VerifyAccess validates an access token and returns its claims
func (s *JWTService) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.accessSecret, TypeAccess)
}

// VerifyRefresh validates a refresh token and returns its claims
func (s *JWTService) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.refreshSecret, TypeRefresh)
}

// verify checks expiry first so an expired token is always reported as expired,
// then signature, time window, issuer, type and payload shape.
func (s *JWTService) verify(tokenString string, secret []byte, tokenType string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	now := s.now()
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, describeParseError(err))
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return nil, ErrTokenNotYetValid
	}
	if claims.IssuedAt != nil && now.Before(claims.IssuedAt.Time) {
		return nil, ErrTokenNotYetValid
	}

	switch {
	case claims.ExpiresAt == nil:
		return nil, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	case s.issuer != "" && claims.Issuer != s.issuer:
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	case claims.TokenType != tokenType:
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, tokenType)
	case claims.UserID == "" || claims.Email == "" || claims.Role == "":
		return nil, fmt.Errorf("%w: incomplete payload", ErrInvalidToken)
	case claims.Subject != "" && claims.Subject != claims.UserID:
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}

	return claims, nil
}

// describeParseError keeps the jwt library's reason without leaking the token
func describeParseError(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature mismatch"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return "unparseable"
	}
}
