package ports

import (
	"context"

	"github.com/shopstack/accounts-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Email uniqueness is enforced at the store level (unique index), not by a
// check-then-insert in the service, so concurrent registrations with the same
// email cannot both succeed.
type AccountRepository interface {
	// Create persists a new account and returns it with its assigned ID.
	// Returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// SetVerified marks the account verified. Idempotent.
	SetVerified(ctx context.Context, id string) error
	// SetPasswordHash atomically replaces the stored password hash.
	SetPasswordHash(ctx context.Context, id, passwordHash string) error
}
