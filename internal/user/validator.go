package user

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// avatarTypes lists accepted avatar content types and the extension stored with them
var avatarTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// NewUserValidator creates a new user validator
func NewUserValidator() UserValidator {
	return &userValidator{}
}

// ValidateEmail validates an email address
func (v *userValidator) ValidateEmail(email string) bool {
	if email == "" {
		return false
	}

	return emailPattern.MatchString(NormalizeEmail(email))
}

// ValidateAvatar checks the content type and size of an avatar upload
func (v *userValidator) ValidateAvatar(contentType string, size int64, maxBytes int64) error {
	if _, ok := avatarTypes[strings.ToLower(contentType)]; !ok {
		return ErrUnsupportedAvatar
	}
	if size <= 0 {
		return ErrInvalidInput
	}
	if maxBytes > 0 && size > maxBytes {
		return ErrAvatarTooLarge
	}
	return nil
}

// AvatarExtension returns the file extension for an accepted avatar content type
func AvatarExtension(contentType string) string {
	return avatarTypes[strings.ToLower(contentType)]
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
