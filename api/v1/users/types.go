package user

import (
	"context"
	"io"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"
	"teamboard-api/internal/user"
)

// UserService is the part of the user service the handlers use
type UserService interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	SetAvatar(ctx context.Context, userID, avatarKey string) error
}

// AvatarStore uploads avatars and signs download URLs
type AvatarStore interface {
	PutAvatar(ctx context.Context, userID, extension, contentType string, body io.ReadSeeker) (string, error)
	GetDownloadPresignedURL(key string) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
}

// Handler handles user requests
type Handler struct {
	userService    UserService
	avatars        AvatarStore
	validator      user.UserValidator
	maxAvatarBytes int64
	logger         *logger.Logger
}
