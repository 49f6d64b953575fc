package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/logging"
	"github.com/sony/gobreaker"
)

type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB, *sql.Tx and dbresolver.DB.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// DB is the primary connection pool guarded by a circuit breaker. Only
// store failures trip the breaker; business rule errors returned from a
// unit of work count as successful calls.
type DB struct {
	pool    *sql.DB
	breaker *gobreaker.CircuitBreaker
}

func NewDB(pool *sql.DB, cfg BreakerConfig) *DB {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        "ledger-store",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.FromContext(context.Background()).Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrStoreUnavailable)
		},
	}
	return &DB{pool: pool, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (d *DB) Conn() *sql.DB {
	return d.pool
}

func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := d.pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("BeginTx: %w", unavailable(err))
	}
	return tx, nil
}

// Guard runs fn through the circuit breaker.
func (d *DB) Guard(fn func() error) error {
	_, err := d.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("Guard: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

// InTx runs fn inside a transaction that commits only if fn returns nil.
func (d *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return d.Guard(func() error {
		tx, err := d.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("InTx: %w", err)
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("InTx: commit: %w", unavailable(err))
		}
		return nil
	})
}

func (d *DB) State() gobreaker.State {
	return d.breaker.State()
}

// unavailable classifies an infrastructure error so callers can match it
// with domain.ErrStoreUnavailable while keeping the cause.
func unavailable(err error) error {
	if err == nil || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
