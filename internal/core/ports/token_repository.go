package ports

import (
	"context"
	"time"

	"github.com/shopstack/accounts-api/internal/core/domain"
)

// TokenRepository manages single-use, purpose-scoped secrets.
type TokenRepository interface {
	// Issue generates a fresh secret for (accountID, purpose), superseding any
	// earlier live token of the same purpose for that account.
	Issue(ctx context.Context, accountID string, purpose domain.TokenPurpose, ttl time.Duration) (*domain.Token, error)
	// Consume atomically deletes the live token for (accountID, purpose) when
	// its secret matches and it has not expired. Exactly-once: a second call
	// with the same values fails with domain.ErrInvalidToken.
	Consume(ctx context.Context, accountID string, purpose domain.TokenPurpose, secret string) error
}
