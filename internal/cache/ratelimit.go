package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitPrefix is the key prefix for fixed-window counters.
const RateLimitPrefix = "rl:"

// RateLimiter counts attempts per (resource, id) inside a fixed window.
type RateLimiter interface {
	// Allow records one attempt and reports whether it is within the limit.
	Allow(ctx context.Context, resource, id string) (bool, error)
}

// RedisRateLimiter implements RateLimiter with INCR + EXPIRE.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit attempts per window for each id.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) RateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

// Allow increments the window counter. The first hit in a window sets its expiry.
func (l *RedisRateLimiter) Allow(ctx context.Context, resource, id string) (bool, error) {
	key := fmt.Sprintf("%s%s:%s", RateLimitPrefix, resource, id)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incr rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("expire rate limit counter: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}
