package domain

import "errors"

var (
	// ErrEmptyInput is returned when a matching run receives no product text
	ErrEmptyInput = errors.New("no product text to match")

	// ErrEmptyCatalog is returned when no master catalog is loaded or the catalog file has no rows
	ErrEmptyCatalog = errors.New("master catalog is empty")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrIndexOutOfRange is returned when an edit targets a result that does not exist
	ErrIndexOutOfRange = errors.New("result index out of range")

	// ErrCorrectionNotFound is returned when a correction key is not in the store
	ErrCorrectionNotFound = errors.New("correction not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrStoreUnavailable is returned when the correction store cannot be read or written
	ErrStoreUnavailable = errors.New("correction store unavailable")
)
