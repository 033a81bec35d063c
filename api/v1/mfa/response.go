package mfa

import (
	"errors"
	"strings"
	"time"

	"teamboard-api/pkg/status"

	"github.com/go-playground/validator/v10"
)

// BaseResponse represents the base structure for responses
type BaseResponse struct {
	Code    int16  `json:"code"`
	Message string `json:"message,omitempty"`
}

// SetupResponse is returned when a new secret is generated
type SetupResponse struct {
	BaseResponse
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qrCodeUrl"`
	ExpiresAt int64  `json:"expiresAt"`
}

// StatusResponse reports whether TOTP is enabled
type StatusResponse struct {
	BaseResponse
	Enabled bool `json:"enabled"`
}

// NewSetupResponse creates a setup response
func NewSetupResponse(secret, url string, expiresAt time.Time) SetupResponse {
	return SetupResponse{
		BaseResponse: BaseResponse{Code: status.StatusMFASetup},
		Secret:       secret,
		QRCodeURL:    url,
		ExpiresAt:    expiresAt.Unix(),
	}
}

// NewValidationError builds the envelope for a binding failure
func NewValidationError(err error) status.ErrorEnvelope {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		full := errs[0].Error()
		if parts := strings.SplitN(full, "Error:", 2); len(parts) == 2 {
			return status.NewErrorEnvelope(status.CodeValidationFailed, strings.TrimSpace(parts[1]))
		}
		return status.NewErrorEnvelope(status.CodeValidationFailed, full)
	}
	return status.NewErrorEnvelope(status.CodeValidationFailed, "Invalid request format")
}
