package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedPool(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := sql.Open("postgres", "postgres://nobody@127.0.0.1:1/none?sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, pool.Close())
	return pool
}

func TestDB_InTxClassifiesDriverErrors(t *testing.T) {
	db := NewDB(closedPool(t), BreakerConfig{MaxFailures: 5, OpenTimeout: time.Minute})

	err := db.InTx(context.Background(), func(tx *sql.Tx) error { return nil })
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestDB_BreakerOpensOnStoreFailures(t *testing.T) {
	db := NewDB(closedPool(t), BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute})
	accounts := NewAccountRepository(db.Conn())

	for range 2 {
		err := db.Guard(func() error {
			_, err := accounts.GetByNumber(context.Background(), "8880000001")
			return err
		})
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, db.State())

	called := false
	err := db.Guard(func() error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestDB_BusinessErrorsDoNotTripBreaker(t *testing.T) {
	db := NewDB(closedPool(t), BreakerConfig{MaxFailures: 1, OpenTimeout: time.Minute})

	for range 3 {
		err := db.Guard(func() error { return domain.ErrInsufficientFunds })
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	}
	assert.Equal(t, gobreaker.StateClosed, db.State())
}

func TestUnavailable(t *testing.T) {
	assert.NoError(t, unavailable(nil))

	cause := errors.New("connection reset")
	err := unavailable(cause)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)

	// already classified errors are not wrapped twice
	assert.Equal(t, err, unavailable(err))
}

func TestNumericOverflow(t *testing.T) {
	overflow := fmt.Errorf("exec: %w", &pq.Error{Code: "22003", Message: "numeric field overflow"})
	assert.True(t, numericOverflow(overflow))
	assert.False(t, numericOverflow(&pq.Error{Code: pqCheckViolation}))
	assert.False(t, numericOverflow(errors.New("connection reset")))
}
