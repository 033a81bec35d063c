package jwt

import "errors"

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and unexpected payloads
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates the expiry claim is in the past
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenNotYetValid indicates nbf/iat is in the future, usually clock skew
	ErrTokenNotYetValid = errors.New("token is not valid yet")

	// ErrInvalidConfig indicates the service cannot be built from the given config
	ErrInvalidConfig = errors.New("invalid token configuration")
)
