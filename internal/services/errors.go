package services

import "errors"

// Service-level failure taxonomy. Handlers map these to HTTP statuses with
// errors.Is; repositories.ErrNotFound stays the single not-found sentinel.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrForbidden          = errors.New("operation not permitted")
	ErrInvalidReference   = errors.New("referenced vehicle not found")
	ErrInvalidBroker      = errors.New("invalid broker")
	ErrInvalidStatus      = errors.New("invalid deal status")
	ErrInvalidTransition  = errors.New("illegal deal status transition")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrInvalidToken   = errors.New("invalid token")
)
