package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a fixed-window counter backed by Redis.
// Key format: ratelimit:<scope>:<key>
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit hits per window.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one hit for the key and reports whether it is still under
// the limit. The first hit of a window sets the expiry; counting is a
// single INCR so concurrent hits never lose updates.
func (l *RateLimiter) Allow(ctx context.Context, scope, key string) (bool, error) {
	k := fmt.Sprintf("ratelimit:%s:%s", scope, key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return n <= l.limit, nil
}

// Reset clears the counter for a key, used after a successful login so a
// legitimate user is not locked out by earlier typos.
func (l *RateLimiter) Reset(ctx context.Context, scope, key string) error {
	return l.client.Del(ctx, fmt.Sprintf("ratelimit:%s:%s", scope, key)).Err()
}
