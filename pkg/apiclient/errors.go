package apiclient

import (
	"errors"
	"fmt"

	"teamboard-api/pkg/status"
)

var (
	ErrInvalidConfig   = errors.New("invalid client configuration")
	ErrSessionExpired  = errors.New("session expired")
	ErrRefreshRejected = errors.New("refresh rejected")
)

// APIError is a non-2xx response decoded from the error envelope
type APIError struct {
	StatusCode int
	Code       status.Code
	Message    string
}

// Error implements error
func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsSessionError reports whether err is a 401 from the server
func IsSessionError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && status.IsUnauthorized(apiErr.Code)
}
