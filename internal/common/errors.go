// Package common defines shared constants and sentinel errors used across
// the book delivery backend. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration errors.
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")

	// Login errors.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUserNotFound         = errors.New("user not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// Order errors.
	ErrBookNotFound         = errors.New("book not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrInvalidPageRequest   = errors.New("invalid page request")
	ErrForbidden            = errors.New("forbidden")
)
