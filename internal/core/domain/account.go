package domain

import "time"

// Account models a registered user of the platform. PasswordHash is never
// serialized; the plaintext password exists only transiently inside the
// auth service.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}
