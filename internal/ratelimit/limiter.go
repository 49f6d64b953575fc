// Package ratelimit counts requests per client in fixed windows stored in
// Redis, so every API instance shares the same budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewLimiter(client redis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// NewClient parses a redis:// URL into a client.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("ratelimit.NewClient: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Allow counts one request for key in the current window. The window's key
// expires with the window.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	start := now.Truncate(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, start.Unix())

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("Allow: %w", err)
	}

	count := int(incr.Val())
	if count > l.limit {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: start.Add(l.window).Sub(now),
		}, nil
	}
	return Result{Allowed: true, Remaining: l.limit - count}, nil
}

// PingContext reports whether the backing Redis answers.
func (l *Limiter) PingContext(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("PingContext: %w", err)
	}
	return nil
}

func (l *Limiter) Limit() int {
	return l.limit
}
