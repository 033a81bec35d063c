package csrf

import "teamboard-api/pkg/status"

// Response carries a CSRF token for cookie-authenticated clients
type Response struct {
	Code      int16  `json:"code"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// NewResponse creates a token response
func NewResponse(token string, expiresAt int64) *Response {
	return &Response{
		Code:      status.StatusOK,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}
