package mfa

import (
	"regexp"
	"strings"
	"time"

	"teamboard-api/pkg/config"

	"github.com/pquerna/otp/totp"
)

var totpCodeRegex = regexp.MustCompile(`^[0-9]{6,8}$`)

// NormalizeTOTPCode strips the spaces authenticator apps insert for readability
func NormalizeTOTPCode(code string) string {
	return strings.TrimSpace(strings.ReplaceAll(code, " ", ""))
}

// ValidateTOTPCode validates a TOTP code format
func ValidateTOTPCode(code string) bool {
	return totpCodeRegex.MatchString(code)
}

// ValidateCode checks code against secret at the given time using cfg's parameters
func ValidateCode(cfg config.TOTPConfig, secret, code string, at time.Time) (bool, error) {
	code = NormalizeTOTPCode(code)
	if secret == "" || !ValidateTOTPCode(code) {
		return false, nil
	}

	return totp.ValidateCustom(
		code,
		secret,
		at.UTC(),
		totp.ValidateOpts{
			Digits:    cfg.Digits,
			Period:    cfg.Period,
			Skew:      cfg.Skew,
			Algorithm: cfg.Algorithm,
		},
	)
}
