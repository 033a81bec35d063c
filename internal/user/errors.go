package user

import (
	"errors"
)

// Custom error types for the user package
var (
	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("Invalid input provided")

	// ErrUserNotFound indicates the user was not found
	ErrUserNotFound = errors.New("User not found")

	// ErrInvalidEmail indicates the provided email is invalid
	ErrInvalidEmail = errors.New("Invalid email format")

	// ErrInvalidCredentials indicates the email/password pair did not match
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrDatabaseError indicates an error occurred with the database
	ErrDatabaseError = errors.New("Database operation failed")

	// ErrAccountDeactivated indicates the user account may not sign in
	ErrAccountDeactivated = errors.New("User account is deactivated")

	// ErrUnsupportedAvatar indicates the uploaded avatar type is not accepted
	ErrUnsupportedAvatar = errors.New("Unsupported avatar image type")

	// ErrAvatarTooLarge indicates the uploaded avatar exceeds the size limit
	ErrAvatarTooLarge = errors.New("Avatar image too large")
)
