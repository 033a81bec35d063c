package auth

import (
	"errors"
)

// Custom error types for the auth package
var (
	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("Invalid input provided")

	// ErrInvalidCredentials indicates the credentials are invalid
	ErrInvalidCredentials = errors.New("Invalid credentials")

	// ErrMFARequired indicates the account needs a TOTP code to sign in
	ErrMFARequired = errors.New("Two-factor code required")

	// ErrInvalidMFACode indicates the TOTP code did not validate
	ErrInvalidMFACode = errors.New("Invalid two-factor code")

	// ErrAccountInactive indicates the account may not sign in
	ErrAccountInactive = errors.New("Account is not active")

	// ErrRefreshRevoked indicates the refresh token was already used or logged out
	ErrRefreshRevoked = errors.New("Refresh token has been revoked")

	// ErrRefreshExpired indicates the refresh token has expired
	ErrRefreshExpired = errors.New("Refresh token expired")

	// ErrInvalidRefresh indicates the refresh token failed verification
	ErrInvalidRefresh = errors.New("Invalid refresh token")

	// ErrUnavailable indicates a backing store could not be reached
	ErrUnavailable = errors.New("Authentication temporarily unavailable")
)
