package user

import (
	"context"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"
)

// Service exposes user lookups and the few mutations the API needs
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// Repository defines the user repository interface
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateAvatar(ctx context.Context, id string, avatar string) error
	UpdateLastLogin(ctx context.Context, id string, at int64) error
}

// UserValidator validates user input
type UserValidator interface {
	ValidateEmail(email string) bool
	ValidateAvatar(contentType string, size int64, maxBytes int64) error
}

// userValidator is the default UserValidator
type userValidator struct{}
