package ports

import (
	"context"

	"github.com/shopstack/accounts-api/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// ResetPasswordInput carries a reset-token redemption.
type ResetPasswordInput struct {
	AccountID   string
	Token       string
	NewPassword string
}

// AccountSummary is the public projection of an account. It never includes
// the password hash.
type AccountSummary struct {
	ID       string
	Username string
	Email    string
	Verified bool
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Account      AccountSummary
	SessionToken string
}

// AuthService defines the account lifecycle use cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	VerifyEmail(ctx context.Context, accountID, token string) error
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
	// GetAccount returns the public projection for a session-authenticated
	// account, or domain.ErrInvalidSession when the account no longer exists.
	GetAccount(ctx context.Context, accountID string) (*AccountSummary, error)
}
