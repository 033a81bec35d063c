package auth

import (
	"context"

	"teamboard-api/internal/auth"
	"teamboard-api/internal/jwt"
	"teamboard-api/internal/logger"
)

// AuthService is the login, refresh and logout flow behind the handlers
type AuthService interface {
	Login(ctx context.Context, email, password, totpCode string) (*auth.Result, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Result, error)
	Logout(ctx context.Context, accessToken string, accessClaims *jwt.Claims, refreshToken string) error
}

// CookieOptions controls the auth cookies set on login and refresh
type CookieOptions struct {
	AccessName  string
	RefreshName string
	Domain      string
	Secure      bool
}

// Handler manages auth-related HTTP requests
type Handler struct {
	authService AuthService
	cookies     CookieOptions
	logger      *logger.Logger
}
