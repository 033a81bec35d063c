package session

import (
	"errors"
	"fmt"

	"teamboard-api/pkg/status"
)

// ErrNoSession is returned by FromContext when no session was attached
var ErrNoSession = errors.New("No authenticated session")

// AuthError is a rejected verification; Reason is the client-visible code
type AuthError struct {
	Reason status.Code
	Err    error
}

// Error implements error
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication rejected (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication rejected (%s)", e.Reason)
}

// Unwrap returns the underlying cause
func (e *AuthError) Unwrap() error {
	return e.Err
}

// reject builds an AuthError
func reject(reason status.Code, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

// ReasonOf extracts the rejection code from err, defaulting to SERVICE_UNAVAILABLE
func ReasonOf(err error) status.Code {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason
	}
	return status.CodeServiceUnavailable
}
