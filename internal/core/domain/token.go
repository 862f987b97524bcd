package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// TokenPurpose discriminates verification tokens from password-reset tokens
// so one can never be substituted for the other.
type TokenPurpose string

const (
	PurposeEmailVerification TokenPurpose = "email_verification"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

// Token is a single-use secret bound to one account and one purpose.
// At most one live token exists per (AccountID, Purpose) pair; issuing a new
// one supersedes any earlier token of the same purpose.
type Token struct {
	ID        string
	AccountID string
	Purpose   TokenPurpose
	Secret    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// NewTokenSecret returns a 256-bit hex-encoded random secret.
func NewTokenSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
