package domain

import "errors"

// Sentinel errors shared across the service and transport layers. The HTTP
// error handler maps each of these to a deterministic status code; anything
// else surfaces as a generic 500.
var (
	ErrMissingFields      = errors.New("please fill all fields")
	ErrEmailTaken         = errors.New("user already exists")
	ErrAccountNotFound    = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("please verify your email before login")
	ErrInvalidSession     = errors.New("invalid session")
)
