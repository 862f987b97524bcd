package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/accounts-api/internal/core/ports"
)

// AccountIDKey is the echo context key under which Auth stores the
// authenticated account ID.
const AccountIDKey = "account_id"

// Auth validates the bearer session token and injects the account ID into
// the request context. Verification is stateless; handlers that need fresh
// account state resolve the account through the service.
func Auth(sessions ports.SessionIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			accountID, err := sessions.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(AccountIDKey, accountID)
			return next(c)
		}
	}
}
