package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allow bool
	err   error

	name  string
	key   string
	limit int
}

func (s *stubLimiter) Allow(_ context.Context, name, key string, limit int, _ time.Duration) (bool, error) {
	s.name = name
	s.key = key
	s.limit = limit
	return s.allow, s.err
}

func runRateLimited(t *testing.T, limiter Limiter) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := RateLimit(limiter, "login", 10, time.Minute, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &stubLimiter{allow: true}

	rec, called := runRateLimited(t, limiter)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if limiter.name != "login" || limiter.limit != 10 {
		t.Fatalf("limiter called with name=%q limit=%d", limiter.name, limiter.limit)
	}
	if limiter.key == "" {
		t.Fatalf("limiter key (client IP) is empty")
	}
}

func TestRateLimit_Denied(t *testing.T) {
	limiter := &stubLimiter{allow: false}

	rec, called := runRateLimited(t, limiter)
	if called {
		t.Fatalf("next called for a limited request")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRateLimit_FailsOpenOnBackendError(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}

	rec, called := runRateLimited(t, limiter)
	if !called {
		t.Fatalf("request was blocked when the limiter backend failed")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
