package ledger_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
	"github.com/josh-kwaku/vault-ledger/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *testutil.MemoryStore
	users *testutil.UserDirectory
	svc   *ledger.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemoryStore()
	users := testutil.NewUserDirectory()
	return &fixture{
		store: store,
		users: users,
		svc:   newService(store, users),
	}
}

func newService(store ledger.Store, users *testutil.UserDirectory) *ledger.Service {
	svc := ledger.NewService(store, users, ledger.DefaultNumberAttempts)
	svc.SetClock(tickingClock())
	svc.SetNumberSource(sequentialNumbers())
	return svc
}

// tickingClock advances one millisecond per call so records sort strictly.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

// sequentialNumbers hands out 8880000001, 8880000002, ...
func sequentialNumbers() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("888%07d", n), nil
	}
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) open(t *testing.T, owner uuid.UUID, typ domain.AccountType, initial string) *domain.Account {
	t.Helper()
	acct, err := f.svc.OpenAccount(context.Background(), owner, typ, amt(initial))
	require.NoError(t, err)
	return acct
}

func (f *fixture) assertBalance(t *testing.T, number, want string) {
	t.Helper()
	acct, err := f.store.GetAccount(context.Background(), number)
	require.NoError(t, err)
	assert.Truef(t, acct.Balance.Equal(amt(want)), "balance of %s: got %s, want %s", number, acct.Balance, want)
}
