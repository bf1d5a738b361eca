package services

import "errors"

// Sentinel errors mapped to HTTP statuses at the handler boundary.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the input was missing, malformed, or non-positive.
	ErrValidation = errors.New("invalid input")

	// ErrUnauthorized means the caller's credentials did not verify.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientQuantity means a decrement would drive an asset's
	// on-hand quantity negative.
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
)
