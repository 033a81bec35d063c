package mfa

import (
	"context"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/mfa"
)

// MFAService is the TOTP enrollment flow behind the handlers
type MFAService interface {
	IsTOTPEnabled(ctx context.Context, userID string) (bool, error)
	Setup(ctx context.Context, userID, accountName string) (*mfa.TOTPData, error)
	Enable(ctx context.Context, userID, code string) error
	Disable(ctx context.Context, userID, code string) error
}

// Handler handles MFA HTTP requests
type Handler struct {
	service MFAService
	logger  *logger.Logger
}
