package auth

import (
	"errors"
	"strings"

	"teamboard-api/internal/jwt"
	"teamboard-api/internal/models"
	"teamboard-api/pkg/status"

	"github.com/go-playground/validator/v10"
)

// User represents a user in the response
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
}

// BaseResponse contains fields common to all responses
type BaseResponse struct {
	Code int16 `json:"code"`
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	BaseResponse
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
	User         User   `json:"user"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	BaseResponse
	Detail string `json:"detail"`
}

// NewTokenResponse creates a login or refresh response
func NewTokenResponse(pair jwt.TokenPair, user *models.User, code int16) TokenResponse {
	return TokenResponse{
		BaseResponse: BaseResponse{Code: code},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		User: User{
			ID:          user.ID,
			Email:       user.Email,
			Role:        user.Role,
			DisplayName: user.DisplayName,
		},
	}
}

// NewSuccessResponse creates a new success response
func NewSuccessResponse(message string, code int16) SuccessResponse {
	return SuccessResponse{
		BaseResponse: BaseResponse{Code: code},
		Detail:       message,
	}
}

// validationMessage extracts the first field error from a binding failure
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		full := errs[0].Error()
		parts := strings.SplitN(full, "Error:", 2)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
		return full
	}
	return "Invalid request format"
}

// NewValidationError creates the envelope for a request that failed binding
func NewValidationError(err error) status.ErrorEnvelope {
	return status.NewErrorEnvelope(status.CodeValidationFailed, validationMessage(err))
}
