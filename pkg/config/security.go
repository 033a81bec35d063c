package config

// RateLimitConfig holds the per-IP token bucket for credential endpoints
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// CSRFConfig holds gorilla/csrf settings for cookie-authenticated requests
type CSRFConfig struct {
	Enabled bool
	Secret  string
	Secure  bool
}

// LoadRateLimitConfig loads rate limit configuration from environment variables
func LoadRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: getEnvAsFloat("AUTH_RATE_LIMIT_RPS", 5),
		Burst:             getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),
	}
}

// LoadCSRFConfig loads CSRF configuration from environment variables
func LoadCSRFConfig() *CSRFConfig {
	return &CSRFConfig{
		Enabled: getEnvAsBool("CSRF_ENABLED", false),
		Secret:  getEnv("CSRF_SECRET", ""),
		Secure:  getEnvAsBool("CSRF_SECURE", false),
	}
}
