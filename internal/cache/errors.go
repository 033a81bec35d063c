package cache

import "errors"

var (
	// ErrStoreUnavailable is returned when Redis cannot be reached and the operation cannot degrade
	ErrStoreUnavailable = errors.New("Cache store unavailable")

	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("Invalid input provided")
)
