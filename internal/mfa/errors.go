package mfa

import "errors"

var (
	ErrInvalidInput       = errors.New("Invalid input")
	ErrTOTPAlreadyEnabled = errors.New("TOTP is already enabled for this user")
	ErrTOTPNotEnabled     = errors.New("TOTP is not enabled for this user")
	ErrTOTPNotInitialized = errors.New("No TOTP setup is pending for this user")
	ErrInvalidTOTPCode    = errors.New("Invalid TOTP code")
	ErrUserNotFound       = errors.New("User not found")

	// ErrUnavailable wraps store failures
	ErrUnavailable = errors.New("MFA store unavailable")
)
