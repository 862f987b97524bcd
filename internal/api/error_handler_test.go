package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopstack/accounts-api/internal/core/domain"
)

func handleError(t *testing.T, err error) (int, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return rec.Code, resp.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"missing fields", domain.ErrMissingFields, http.StatusBadRequest},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"invalid token", domain.ErrInvalidToken, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"email not verified", domain.ErrEmailNotVerified, http.StatusUnauthorized},
		{"invalid session", domain.ErrInvalidSession, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := handleError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if msg != tc.err.Error() {
				t.Fatalf("expected message %q, got %q", tc.err.Error(), msg)
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("store: lookup"), domain.ErrAccountNotFound)

	code, msg := handleError(t, wrapped)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped sentinel, got %d", code)
	}
	if msg == "" {
		t.Fatalf("empty message")
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, msg := handleError(t, echo.NewHTTPError(http.StatusTooManyRequests, "too many requests"))
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if msg != "too many requests" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHTTPErrorHandler_UnknownErrorHidesDetails(t *testing.T) {
	code, msg := handleError(t, errors.New("mongo: connection refused at 10.0.0.3"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := c.NoContent(http.StatusOK); err != nil {
		t.Fatalf("commit response: %v", err)
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(errors.New("late failure"), c)

	if rec.Code != http.StatusOK {
		t.Fatalf("committed response was overwritten: %d", rec.Code)
	}
}
