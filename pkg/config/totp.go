package config

import "github.com/pquerna/otp"

// TOTPConfig holds the parameters used to validate second-factor codes at login
type TOTPConfig struct {
	Issuer    string        // The issuer name shown in TOTP apps
	Digits    otp.Digits    // Number of digits in a TOTP code
	Period    uint          // TOTP period in seconds
	Skew      uint          // Accepted time skew (in periods)
	Algorithm otp.Algorithm // Algorithm used for TOTP
}

// LoadTOTPConfig loads TOTP configuration from environment variables
func LoadTOTPConfig() *TOTPConfig {
	config := &TOTPConfig{
		Issuer:    getEnv("TOTP_ISSUER", "Teamboard"),
		Digits:    otp.DigitsSix,
		Period:    uint(getEnvAsInt("TOTP_PERIOD", 30)),
		Skew:      uint(getEnvAsInt("TOTP_SKEW", 1)),
		Algorithm: otp.AlgorithmSHA1,
	}

	if getEnvAsInt("TOTP_DIGITS", 6) == 8 {
		config.Digits = otp.DigitsEight
	}

	return config
}
