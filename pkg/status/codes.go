package status

// Status codes for successful API responses
// 1000-1999: Success codes
// 2000-2999: Challenge/Verification codes
const (
	// Success codes (1000-1999)
	StatusOK             int16 = 1000
	StatusUpdated        int16 = 1003
	StatusMFAEnabled     int16 = 1020
	StatusMFADisabled    int16 = 1021
	StatusLoginSuccess   int16 = 1010
	StatusTokenRefreshed int16 = 1012
	StatusLogoutSuccess  int16 = 1013
	StatusFileUploaded   int16 = 1030

	// Challenge codes (2000-2999)
	StatusMFARequired int16 = 2001
	StatusMFASetup    int16 = 2002
)

// Code is the machine-readable error code carried in the error envelope
type Code string

// Authentication failures (401)
const (
	CodeNoToken          Code = "NO_TOKEN"
	CodeInvalidToken     Code = "INVALID_TOKEN"
	CodeTokenExpired     Code = "TOKEN_EXPIRED"
	CodeTokenNotYetValid Code = "TOKEN_NOT_YET_VALID"
	CodeRevoked          Code = "REVOKED"
	CodeUserNotFound     Code = "USER_NOT_FOUND"
	CodeAccountInactive  Code = "ACCOUNT_INACTIVE"
)

// Other client and server errors
const (
	CodeForbidden          Code = "FORBIDDEN"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeMFARequired        Code = "MFA_REQUIRED"
	CodeInvalidMFACode     Code = "INVALID_MFA_CODE"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"
	CodeCSRFMismatch       Code = "CSRF_TOKEN_MISMATCH"
	CodePayloadTooLarge    Code = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMedia   Code = "UNSUPPORTED_MEDIA_TYPE"
	CodeInternal           Code = "INTERNAL_ERROR"
)
