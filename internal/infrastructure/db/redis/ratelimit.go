package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter provides fixed-window request counting backed by Redis.
// Key format: ratelimit:<name>:<key>:<window_bucket>
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow reports whether another request is permitted for key within the
// current window. The counter key expires with the window, so abandoned
// buckets clean themselves up.
func (l *RateLimiter) Allow(ctx context.Context, name, key string, limit int, window time.Duration) (bool, error) {
	bucket := time.Now().Unix() / int64(window.Seconds())
	k := fmt.Sprintf("ratelimit:%s:%s:%d", name, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}

	return incr.Val() <= int64(limit), nil
}
