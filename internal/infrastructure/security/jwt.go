package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopstack/accounts-api/internal/core/domain"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// JWTSessionIssuer implements ports.SessionIssuer with HS256-signed JWTs.
// The signing secret is fixed at construction and never mutated afterwards,
// so concurrent verifications share it safely.
type JWTSessionIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTSessionIssuer(secret string, ttl time.Duration) *JWTSessionIssuer {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &JWTSessionIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the account ID and an absolute expiry.
func (i *JWTSessionIssuer) Issue(accountID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify is stateless: signature and expiry are checked without any store
// lookup. Callers needing fresh account state resolve the account separately.
func (i *JWTSessionIssuer) Verify(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidSession
	}

	accountID, _ := claims["sub"].(string)
	if accountID == "" {
		return "", domain.ErrInvalidSession
	}
	return accountID, nil
}
