package user

import (
	"context"
	"errors"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no user matches so lookups take similar time
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("teamboard-dummy-password"), bcrypt.DefaultCost)

// NewService creates a new user service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// GetUserByID retrieves the authoritative user record
func (s *Service) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	return s.repo.FindByID(ctx, userID)
}

// GetUserByEmail retrieves a user by email
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if !NewUserValidator().ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	return s.repo.FindByEmail(ctx, NormalizeEmail(email))
}

// Authenticate checks an email/password pair and returns the matching active user
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidEmail) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrAccountDeactivated
	}

	return user, nil
}

// CreateUser registers a user with a bcrypt-hashed password
func (s *Service) CreateUser(ctx context.Context, email, password, displayName, role string) (*models.User, error) {
	if !NewUserValidator().ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrInvalidInput
	}
	if role == "" {
		role = models.RoleMember
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		Status:       models.StatusActive,
		DisplayName:  displayName,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// RecordLogin updates the last login timestamp; failures are logged only
func (s *Service) RecordLogin(ctx context.Context, userID string) {
	if err := s.repo.UpdateLastLogin(ctx, userID, time.Now().Unix()); err != nil {
		s.logger.WithFields(logrus.Fields{"userID": userID, "error": err.Error()}).Warn("Failed to record last login")
	}
}

// SetAvatar stores the avatar object key for a user
func (s *Service) SetAvatar(ctx context.Context, userID, avatarKey string) error {
	if userID == "" || avatarKey == "" {
		return ErrInvalidInput
	}

	return s.repo.UpdateAvatar(ctx, userID, avatarKey)
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
