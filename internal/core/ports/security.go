package ports

// PasswordHasher produces and verifies one-way salted password hashes.
type PasswordHasher interface {
	// Hash returns an opaque hash of plaintext. Calling it twice with the same
	// input yields different hashes (per-call salt).
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches the stored hash. A mismatch is
	// (false, nil); the error is reserved for a malformed stored hash.
	Verify(plaintext, hash string) (bool, error)
}

// SessionIssuer signs and verifies stateless bearer session tokens.
type SessionIssuer interface {
	Issue(accountID string) (string, error)
	// Verify returns the account ID embedded in the token, or
	// domain.ErrInvalidSession for a malformed, tampered, or expired token.
	Verify(token string) (string, error)
}
