package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopstack/accounts-api/internal/api/metrics"
)

// Limiter abstracts the fixed-window counter (Redis in production).
type Limiter interface {
	Allow(ctx context.Context, name, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit rejects requests beyond limit-per-window for a client IP with
// 429. A limiter backend failure fails open: credential endpoints must stay
// reachable when Redis is down, so the error is logged and the request
// proceeds.
func RateLimit(limiter Limiter, name string, limit int, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), name, c.RealIP(), limit, window)
			if err != nil {
				log.Warn().Err(err).Str("route", name).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(name).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
