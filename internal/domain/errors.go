package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrPremiumRequired = errors.New("premium required")
	ErrProviderFailure = errors.New("provider failure")
	ErrInvalidInput    = errors.New("invalid input")
)
