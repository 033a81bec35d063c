package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"teamboard-api/pkg/redis"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration settings for the application
type AppConfig struct {
	// Server settings
	Port            string
	Host            string
	Environment     string
	RequestTimeout  int
	ShutdownTimeout int
	AllowedOrigins  []string
	LogLevel        string

	// Error reporting
	SentryDSN  string
	AppVersion string

	// Auth settings (from auth.go)
	Auth *AuthConfig

	// TOTP settings (from totp.go)
	TOTP *TOTPConfig

	// Database settings (from database.go)
	Database *DatabaseConfig

	// Redis settings (from redis.go)
	Redis *redis.Config

	// S3 settings (from s3.go), nil when credentials are missing
	S3 *S3Config

	// Rate limiting and CSRF (from security.go)
	RateLimit *RateLimitConfig
	CSRF      *CSRFConfig

	// WebSocket limits (from socket.go)
	Socket *SocketConfig
}

var (
	appConfig *AppConfig
	once      sync.Once
)

// LoadConfig loads all configuration from environment variables once
func LoadConfig() *AppConfig {
	once.Do(func() {
		// Load environment variables from .env file if it exists
		loadEnvFile()
		appConfig = Load()
	})

	return appConfig
}

// Load builds a configuration from the current environment without caching it
func Load() *AppConfig {
	return &AppConfig{
		// Server settings
		Port:            getEnv("PORT", "8000"),
		Host:            getEnv("HOST", "localhost"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		RequestTimeout:  getEnvAsInt("REQUEST_TIMEOUT", 30),
		ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		SentryDSN:  getEnv("SENTRY_DSN", ""),
		AppVersion: getEnv("APP_VERSION", "dev"),

		Auth:      LoadAuthConfig(),
		TOTP:      LoadTOTPConfig(),
		Database:  LoadDatabaseConfig(),
		Redis:     LoadRedisConfig(),
		S3:        LoadS3Config(),
		RateLimit: LoadRateLimitConfig(),
		CSRF:      LoadCSRFConfig(),
		Socket:    LoadSocketConfig(),
	}
}

// Validate checks the sections that cannot run with defaults
func (c *AppConfig) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if c.CSRF.Enabled && len(c.CSRF.Secret) < 32 {
		return fmt.Errorf("csrf config: CSRF_SECRET must be at least 32 bytes when CSRF is enabled")
	}
	return nil
}

// IsDevelopment returns true if the app is in development mode
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the app is in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// IsTest returns true if the app is in test mode
func (c *AppConfig) IsTest() bool {
	return c.Environment == "test"
}

// loadEnvFile tries to load environment variables from .env file
func loadEnvFile() {
	// Try to load environment from .env file (prioritize based on environment)
	envFiles := []string{
		".env." + os.Getenv("ENVIRONMENT") + ".local", // .env.development.local
		".env.local",                       // .env.local
		".env." + os.Getenv("ENVIRONMENT"), // .env.development
		".env",                             // .env
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			err = godotenv.Load(file)
			if err == nil {
				log.Printf("Loaded environment from %s", file)
				break
			}
		}
	}
}
