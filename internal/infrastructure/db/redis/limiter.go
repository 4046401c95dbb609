package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rl:login:"

// WindowLimiter counts attempts per key in fixed windows shared by every
// instance pointing at the same Redis.
// Key format: rl:login:<key>
type WindowLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func NewWindowLimiter(client redis.Cmdable, limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{client: client, limit: int64(limit), window: window}
}

// Allow increments the counter for key and reports whether it is still
// within the limit. The window starts at the first attempt.
func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := keyPrefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	return incr.Val() <= l.limit, nil
}
