package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopstack/accounts-api/internal/core/domain"
	"github.com/shopstack/accounts-api/internal/core/ports"
	"github.com/shopstack/accounts-api/internal/infrastructure/security"
)

// routerAuthStub plays back canned results for routing-level tests.
type routerAuthStub struct {
	registerErr error
}

func (s *routerAuthStub) Register(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &domain.Account{ID: "acc-1", Username: in.Username, Email: in.Email}, nil
}

func (s *routerAuthStub) VerifyEmail(context.Context, string, string) error { return nil }

func (s *routerAuthStub) Login(_ context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return &ports.LoginResult{
		Account:      ports.AccountSummary{ID: "acc-1", Email: in.Email, Verified: true},
		SessionToken: "session-token",
	}, nil
}

func (s *routerAuthStub) ForgotPassword(context.Context, string) error { return nil }

func (s *routerAuthStub) ResetPassword(context.Context, ports.ResetPasswordInput) error { return nil }

func (s *routerAuthStub) GetAccount(_ context.Context, accountID string) (*ports.AccountSummary, error) {
	return &ports.AccountSummary{ID: accountID, Username: "alice", Email: "alice@example.com", Verified: true}, nil
}

type allowAllLimiter struct{ deny bool }

func (l *allowAllLimiter) Allow(context.Context, string, string, int, time.Duration) (bool, error) {
	return !l.deny, nil
}

// TestRouter exercises routing, middleware wiring, and the error envelope in
// one pass. The router is built once: the Prometheus middleware registers
// collectors globally, so a second NewRouter in the same process would panic.
func TestRouter(t *testing.T) {
	stub := &routerAuthStub{}
	limiter := &allowAllLimiter{}
	sessions := security.NewJWTSessionIssuer("test-secret", time.Hour)

	e := NewRouter(Deps{
		AuthService: stub,
		Sessions:    sessions,
		Limiter:     limiter,
		Log:         zerolog.Nop(),
	})

	do := func(method, path, body, bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("liveness", func(t *testing.T) {
		rec := do(http.MethodGet, "/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("register", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/v1/register",
			`{"username":"alice","email":"alice@example.com","password":"hunter22"}`, "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("register conflict maps to 409 envelope", func(t *testing.T) {
		stub.registerErr = domain.ErrEmailTaken
		defer func() { stub.registerErr = nil }()

		rec := do(http.MethodPost, "/api/v1/register",
			`{"username":"alice","email":"alice@example.com","password":"hunter22"}`, "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if resp.Error != domain.ErrEmailTaken.Error() {
			t.Fatalf("unexpected error message: %q", resp.Error)
		}
	})

	t.Run("login allowed", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/v1/login",
			`{"email":"alice@example.com","password":"hunter22"}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("login rate limited", func(t *testing.T) {
		limiter.deny = true
		defer func() { limiter.deny = false }()

		rec := do(http.MethodPost, "/api/v1/login",
			`{"email":"alice@example.com","password":"hunter22"}`, "")
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
	})

	t.Run("me requires session", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/v1/me", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("me with valid session", func(t *testing.T) {
		token, err := sessions.Issue("acc-1")
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		rec := do(http.MethodGet, "/api/v1/me", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("verify email route", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/v1/verify/acc-1/deadbeef", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("reset password route", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/v1/reset-password/acc-1/deadbeef",
			`{"password":"newpass99"}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown route gets JSON envelope", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/v1/nope", "", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		rec := do(http.MethodGet, "/metrics", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "accounts_") {
			t.Fatalf("metrics output missing namespace")
		}
	})
}
