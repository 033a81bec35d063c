package mfa

import (
	"context"
	"fmt"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/pkg/config"
	"teamboard-api/pkg/redis"

	"github.com/pquerna/otp/totp"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefix for secrets generated but not yet confirmed
	totpPendingPrefix = "mfa:totp:pending:"

	// How long a generated secret waits for its first code
	pendingSecretExpiry = 10 * time.Minute
)

// TOTPData contains TOTP setup information
type TOTPData struct {
	Secret    string    `json:"secret"`
	QRCodeURL string    `json:"qrCodeUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service handles TOTP enrollment. Enrollment is two-step: Setup parks a fresh
// secret in Redis, Enable moves it to the user record once a code checks out.
type Service struct {
	config config.TOTPConfig
	repo   Repository
	store  redis.Store
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new MFA service
func NewService(repo Repository, store redis.Store, cfg config.TOTPConfig, log *logger.Logger) *Service {
	if cfg.Issuer == "" {
		cfg.Issuer = "Teamboard"
	}
	if cfg.Period == 0 {
		cfg.Period = 30
	}
	return &Service{
		config: cfg,
		repo:   repo,
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the time source, used by tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IsTOTPEnabled reports whether the user has a confirmed TOTP secret
func (s *Service) IsTOTPEnabled(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, ErrInvalidInput
	}
	u, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.TOTPSecret != nil && *u.TOTPSecret != "", nil
}

// Setup generates a new secret for the user and holds it until Enable confirms it.
// Calling Setup again replaces the pending secret.
func (s *Service) Setup(ctx context.Context, userID, accountName string) (*TOTPData, error) {
	enabled, err := s.IsTOTPEnabled(ctx, userID)
	if err != nil {
		return nil, err
	}
	if enabled {
		return nil, ErrTOTPAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.config.Issuer,
		AccountName: accountName,
		Digits:      s.config.Digits,
		Period:      s.config.Period,
		Algorithm:   s.config.Algorithm,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.store.Set(ctx, totpPendingPrefix+userID, key.Secret(), pendingSecretExpiry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &TOTPData{
		Secret:    key.Secret(),
		QRCodeURL: key.URL(),
		ExpiresAt: s.now().Add(pendingSecretExpiry),
	}, nil
}

// Enable confirms the pending secret with a code and stores it on the user
func (s *Service) Enable(ctx context.Context, userID, code string) error {
	if userID == "" || code == "" {
		return ErrInvalidInput
	}

	secret, err := s.store.Get(ctx, totpPendingPrefix+userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if secret == "" {
		return ErrTOTPNotInitialized
	}

	if !s.validate(secret, code) {
		return ErrInvalidTOTPCode
	}

	if err := s.repo.SetTOTPSecret(ctx, userID, &secret); err != nil {
		return err
	}

	if _, err := s.store.Delete(ctx, totpPendingPrefix+userID); err != nil {
		s.logger.WithFields(logrus.Fields{"userID": userID, "error": err.Error()}).Warn("Failed to remove pending TOTP secret")
	}

	s.logger.WithField("userID", userID).Info("TOTP enabled successfully")
	return nil
}

// Disable removes the user's TOTP secret after checking a current code
func (s *Service) Disable(ctx context.Context, userID, code string) error {
	if userID == "" || code == "" {
		return ErrInvalidInput
	}

	u, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if u.TOTPSecret == nil || *u.TOTPSecret == "" {
		return ErrTOTPNotEnabled
	}

	if !s.validate(*u.TOTPSecret, code) {
		return ErrInvalidTOTPCode
	}

	if err := s.repo.SetTOTPSecret(ctx, userID, nil); err != nil {
		return err
	}

	s.logger.WithField("userID", userID).Info("TOTP disabled successfully")
	return nil
}

func (s *Service) validate(secret, code string) bool {
	valid, err := ValidateCode(s.config, secret, code, s.now())
	if err != nil {
		s.logger.WithError(err).Warn("Failed to validate TOTP code")
		return false
	}
	return valid
}
