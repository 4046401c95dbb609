package ports

import "context"

// RateLimiter decides whether another attempt for key is allowed now.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
