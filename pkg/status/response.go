package status

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error part of the envelope
type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope is the body written for every failed request
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// httpStatuses maps error codes onto HTTP status codes
var httpStatuses = map[Code]int{
	CodeNoToken:            http.StatusUnauthorized,
	CodeInvalidToken:       http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeTokenNotYetValid:   http.StatusUnauthorized,
	CodeRevoked:            http.StatusUnauthorized,
	CodeUserNotFound:       http.StatusUnauthorized,
	CodeAccountInactive:    http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeMFARequired:        http.StatusUnauthorized,
	CodeInvalidMFACode:     http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeCSRFMismatch:       http.StatusForbidden,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
	CodeBadRequest:         http.StatusBadRequest,
	CodeValidationFailed:   http.StatusUnprocessableEntity,
	CodeNotFound:           http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeTooManyRequests:    http.StatusTooManyRequests,
	CodePayloadTooLarge:    http.StatusRequestEntityTooLarge,
	CodeUnsupportedMedia:   http.StatusUnsupportedMediaType,
	CodeInternal:           http.StatusInternalServerError,
}

// defaultMessages are used when a caller passes an empty message
var defaultMessages = map[Code]string{
	CodeNoToken:            "Authentication required",
	CodeInvalidToken:       "Invalid access token",
	CodeTokenExpired:       "Access token expired",
	CodeTokenNotYetValid:   "Access token not yet valid",
	CodeRevoked:            "Token has been revoked",
	CodeUserNotFound:       "User not found",
	CodeAccountInactive:    "Account is not active",
	CodeForbidden:          "You don't have permission to access this resource",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeInternal:           "Internal server error",
}

// HTTPStatus returns the HTTP status for an error code, 500 for unknown codes
func HTTPStatus(code Code) int {
	if s, ok := httpStatuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// IsUnauthorized reports whether code belongs to the 401 family
func IsUnauthorized(code Code) bool {
	return HTTPStatus(code) == http.StatusUnauthorized
}

// NewErrorEnvelope builds the error body for code
func NewErrorEnvelope(code Code, message string) ErrorEnvelope {
	if message == "" {
		message = defaultMessages[code]
	}
	return ErrorEnvelope{
		Success: false,
		Error:   ErrorBody{Code: code, Message: message},
	}
}

// Abort writes the error envelope with the mapped HTTP status and stops the handler chain
func Abort(c *gin.Context, code Code, message string) {
	c.AbortWithStatusJSON(HTTPStatus(code), NewErrorEnvelope(code, message))
}
