package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeposit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.users.AddUser("alice")
	acct := f.open(t, owner, domain.AccountTypeChecking, "10.00")

	rec, err := f.svc.Deposit(ctx, acct.AccountNumber, amt("2.50"))
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, domain.TransactionTypeDeposit, rec.Type)
	assert.Nil(t, rec.SourceAccount)
	require.NotNil(t, rec.DestinationAccount)
	assert.Equal(t, acct.AccountNumber, *rec.DestinationAccount)
	f.assertBalance(t, acct.AccountNumber, "12.50")
}

func TestDeposit_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.users.AddUser("alice")
	acct := f.open(t, owner, domain.AccountTypeChecking, "10.00")

	tests := []struct {
		name    string
		number  string
		amount  string
		wantErr error
	}{
		{name: "zero", number: acct.AccountNumber, amount: "0", wantErr: domain.ErrInvalidAmount},
		{name: "negative", number: acct.AccountNumber, amount: "-3", wantErr: domain.ErrInvalidAmount},
		{name: "sub-cent", number: acct.AccountNumber, amount: "0.001", wantErr: domain.ErrInvalidAmount},
		{name: "above column maximum", number: acct.AccountNumber, amount: "1e18", wantErr: domain.ErrInvalidAmount},
		{name: "unknown account", number: "8889999999", amount: "1", wantErr: domain.ErrAccountNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := f.store.RecordCount()
			_, err := f.svc.Deposit(ctx, tc.number, amt(tc.amount))
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, f.store.RecordCount())
		})
	}
	f.assertBalance(t, acct.AccountNumber, "10.00")
}

func TestDeposit_BalanceLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.users.AddUser("alice")
	acct := f.open(t, owner, domain.AccountTypeChecking, "99999999999999999.00")

	before := f.store.RecordCount()
	_, err := f.svc.Deposit(ctx, acct.AccountNumber, amt("1.00"))
	require.ErrorIs(t, err, domain.ErrBalanceLimitExceeded)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, before, f.store.RecordCount())
	f.assertBalance(t, acct.AccountNumber, "99999999999999999.00")

	_, err = f.svc.Deposit(ctx, acct.AccountNumber, amt("0.99"))
	require.NoError(t, err)
	f.assertBalance(t, acct.AccountNumber, "99999999999999999.99")
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.users.AddUser("alice")
	acct := f.open(t, owner, domain.AccountTypeChecking, "100.00")

	rec, err := f.svc.Withdraw(ctx, acct.AccountNumber, amt("40.25"), owner)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeWithdrawal, rec.Type)
	assert.Nil(t, rec.DestinationAccount)
	f.assertBalance(t, acct.AccountNumber, "59.75")

	// draining to exactly zero is allowed
	_, err = f.svc.Withdraw(ctx, acct.AccountNumber, amt("59.75"), owner)
	require.NoError(t, err)
	f.assertBalance(t, acct.AccountNumber, "0")
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.users.AddUser("alice")
	acct := f.open(t, owner, domain.AccountTypeChecking, "100.00")
	records := f.store.RecordCount()

	_, err := f.svc.Withdraw(ctx, acct.AccountNumber, amt("150.00"), owner)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	f.assertBalance(t, acct.AccountNumber, "100.00")
	assert.Equal(t, records, f.store.RecordCount())
}

func TestWithdraw_Authorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.users.AddUser("alice")
	stranger := f.users.AddUser("mallory")
	acct := f.open(t, owner, domain.AccountTypeChecking, "100.00")

	_, err := f.svc.Withdraw(ctx, acct.AccountNumber, amt("1.00"), stranger)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Withdraw(ctx, acct.AccountNumber, amt("1.00"), uuid.New())
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	f.users.SetStatus(owner, domain.UserStatusFrozen)
	_, err = f.svc.Withdraw(ctx, acct.AccountNumber, amt("1.00"), owner)
	require.ErrorIs(t, err, domain.ErrOwnerNotActive)

	f.assertBalance(t, acct.AccountNumber, "100.00")
}

func TestWithdraw_ConcurrentOverdraft(t *testing.T) {
	const n = 20
	ctx := context.Background()
	f := newFixture(t)
	owner := f.users.AddUser("alice")
	acct := f.open(t, owner, domain.AccountTypeChecking, "95.00") // 5.00 * (n-1)

	var wg sync.WaitGroup
	results := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Withdraw(ctx, acct.AccountNumber, amt("5.00"), owner)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientFunds):
			insufficient++
		}
	}

	assert.Equal(t, n-1, ok)
	assert.Equal(t, 1, insufficient)
	f.assertBalance(t, acct.AccountNumber, "0")

	history, err := f.svc.History(ctx, acct.AccountNumber, 0)
	require.NoError(t, err)
	assert.Len(t, history, n) // opening deposit + n-1 withdrawals
}

func TestCanceledContextIsStoreFailure(t *testing.T) {
	f := newFixture(t)
	owner := f.users.AddUser("alice")
	acct := f.open(t, owner, domain.AccountTypeChecking, "10.00")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Deposit(ctx, acct.AccountNumber, amt("1.00"))
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.ErrorIs(t, err, context.Canceled)
	f.assertBalance(t, acct.AccountNumber, "10.00")
}
