package service

import (
	"context"
	"log/slog"
	"time"
)

type expiringCache interface {
	CleanExpired(ctx context.Context) (int64, error)
}

// Janitor periodically removes expired idempotency cache entries.
type Janitor struct {
	cache    expiringCache
	logger   *slog.Logger
	interval time.Duration
}

func NewJanitor(cache expiringCache, logger *slog.Logger, interval time.Duration) *Janitor {
	return &Janitor{
		cache:    cache,
		logger:   logger,
		interval: interval,
	}
}

// Start sweeps once immediately and then every interval until ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("janitor started", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	n, err := j.cache.CleanExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Error("idempotency cleanup failed", "error", err)
		}
		return
	}
	if n > 0 {
		j.logger.Info("expired idempotency entries removed", "count", n)
	}
}
