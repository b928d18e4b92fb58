// Package common defines shared constants and sentinel errors used across
// the server layers of visittracker. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Request validation errors. Both are raised before any side effect.
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnknownAction  = errors.New("unknown action")

	// Merge errors.
	ErrMissingID = errors.New("entity without id")

	// Media errors.
	ErrMalformedDataURI = errors.New("malformed data uri")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
