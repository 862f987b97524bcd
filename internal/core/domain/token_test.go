package domain

import (
	"encoding/hex"
	"testing"
	"time"
)

func TestNewTokenSecret(t *testing.T) {
	secret, err := NewTokenSecret()
	if err != nil {
		t.Fatalf("NewTokenSecret returned error: %v", err)
	}
	if len(secret) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(secret))
	}
	if _, err := hex.DecodeString(secret); err != nil {
		t.Fatalf("secret is not valid hex: %v", err)
	}

	other, err := NewTokenSecret()
	if err != nil {
		t.Fatalf("NewTokenSecret returned error: %v", err)
	}
	if secret == other {
		t.Fatalf("two secrets are identical")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	tok := Token{ExpiresAt: now.Add(time.Hour)}

	if tok.Expired(now) {
		t.Fatalf("token expired before its deadline")
	}
	if tok.Expired(tok.ExpiresAt) {
		t.Fatalf("token must still be valid at the exact deadline")
	}
	if !tok.Expired(tok.ExpiresAt.Add(time.Second)) {
		t.Fatalf("token not expired after its deadline")
	}
}
