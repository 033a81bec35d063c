package mfa

import (
	"context"
	"errors"
	"fmt"

	"teamboard-api/internal/models"
	"teamboard-api/pkg/db"

	"gorm.io/gorm"
)

// Repository reads and writes a user's TOTP secret
type Repository interface {
	FindUser(ctx context.Context, userID string) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID string, secret *string) error
}

type repo struct {
	users *db.BaseRepository[models.User]
}

// NewRepository creates a TOTP repository over the users table
func NewRepository(database *gorm.DB) Repository {
	return &repo{
		users: db.NewRepository[models.User](database),
	}
}

func (r *repo) FindUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

// SetTOTPSecret stores secret, or clears it when secret is nil
func (r *repo) SetTOTPSecret(ctx context.Context, userID string, secret *string) error {
	err := r.users.UpdateColumns(ctx, userID, map[string]interface{}{
		"totp_secret": secret,
	})
	return translateError(err)
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrUserNotFound
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
