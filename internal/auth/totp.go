package auth

import (
	"teamboard-api/internal/mfa"
)

// validateTOTP checks a login code against the user's TOTP secret
func (s *Service) validateTOTP(secret, code string) bool {
	valid, err := mfa.ValidateCode(s.totp, secret, code, s.now())
	if err != nil {
		s.logger.WithError(err).Warn("Failed to validate TOTP code")
		return false
	}
	return valid
}
