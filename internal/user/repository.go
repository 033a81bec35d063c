package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamboard-api/internal/models"
	"teamboard-api/pkg/db"

	"gorm.io/gorm"
)

// NewRepository creates a new user repository
func NewRepository(database *gorm.DB) Repository {
	return &repo{
		userRepo: db.NewRepository[models.User](database),
	}
}

// repo is the gorm implementation of Repository
type repo struct {
	userRepo db.Repository[models.User]
}

// FindByID finds a user by ID
func (r *repo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

// FindByEmail finds a user by normalized email
func (r *repo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.userRepo.FindOneWhere(ctx, "email = ?", NormalizeEmail(email))
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

// Create inserts a new user
func (r *repo) Create(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	if err := r.userRepo.Create(ctx, user); err != nil {
		return translateError(err)
	}
	return nil
}

// UpdateAvatar stores a new avatar object key
func (r *repo) UpdateAvatar(ctx context.Context, id string, avatar string) error {
	return translateError(r.userRepo.UpdateColumns(ctx, id, map[string]interface{}{
		"avatar":      avatar,
		"modified_at": time.Now().Unix(),
	}))
}

// UpdateLastLogin records a successful sign-in
func (r *repo) UpdateLastLogin(ctx context.Context, id string, at int64) error {
	return translateError(r.userRepo.UpdateColumns(ctx, id, map[string]interface{}{
		"last_login": at,
	}))
}

// translateError maps gorm errors onto package sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrUserNotFound
	default:
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
}
