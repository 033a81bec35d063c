package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamboard-api/internal/jwt"
	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"
	"teamboard-api/internal/user"
	"teamboard-api/pkg/config"

	"github.com/sirupsen/logrus"
)

// NewService creates a new auth service
func NewService(users UserService, tokens TokenIssuer, cache TokenCache, totpConfig config.TOTPConfig, log *logger.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		cache:  cache,
		totp:   totpConfig,
		logger: log,
		now:    time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login verifies credentials, and the TOTP code when the account has one, then issues a token pair
func (s *Service) Login(ctx context.Context, email, password, totpCode string) (*Result, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			return nil, ErrInvalidCredentials
		case errors.Is(err, user.ErrAccountDeactivated):
			return nil, ErrAccountInactive
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if u.HasTOTP() {
		if totpCode == "" {
			return nil, ErrMFARequired
		}
		if !s.validateTOTP(*u.TOTPSecret, totpCode) {
			s.logger.WithField("userID", u.ID).Warn("Rejected login with invalid TOTP code")
			return nil, ErrInvalidMFACode
		}
	}

	result, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}

	s.users.RecordLogin(ctx, u.ID)
	return result, nil
}

// Refresh exchanges a valid refresh token for a new pair.
// The presented refresh token is consumed atomically, so it mints at most one pair
// even when the same token is presented concurrently.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	if refreshToken == "" {
		return nil, ErrInvalidInput
	}

	revoked, err := s.cache.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if revoked {
		return nil, ErrRefreshRevoked
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrRefreshExpired
		}
		return nil, ErrInvalidRefresh
	}

	u, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !u.IsActive() {
		return nil, ErrAccountInactive
	}

	consumed, err := s.cache.Consume(ctx, refreshToken, claims.Remaining(s.now()))
	if err != nil {
		s.logger.WithFields(logrus.Fields{"userID": u.ID, "error": err.Error()}).Warn("Failed to consume refresh token")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !consumed {
		return nil, ErrRefreshRevoked
	}

	return s.issue(ctx, u)
}

// Logout blacklists the access token, and the refresh token when one is presented,
// for the rest of their lifetimes.
func (s *Service) Logout(ctx context.Context, accessToken string, accessClaims *jwt.Claims, refreshToken string) error {
	if accessToken == "" || accessClaims == nil {
		return ErrInvalidInput
	}

	now := s.now()
	if err := s.cache.Blacklist(ctx, accessToken, accessClaims.Remaining(now)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if refreshToken == "" {
		return nil
	}

	refreshClaims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil || refreshClaims.UserID != accessClaims.UserID {
		// Nothing to revoke
		return nil
	}

	if err := s.cache.Blacklist(ctx, refreshToken, refreshClaims.Remaining(now)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// issue signs a pair for u and warms the user cache
func (s *Service) issue(ctx context.Context, u *models.User) (*Result, error) {
	pair, err := s.tokens.IssuePair(jwt.Subject{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		s.logger.WithError(err).Error("Failed to issue token pair")
		return nil, err
	}

	s.cache.CacheUser(ctx, u.Snapshot(), s.tokens.AccessExpiry())

	return &Result{Pair: pair, User: u}, nil
}
