package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
	"github.com/josh-kwaku/vault-ledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyStore fails SaveAccount for one account number, standing in for a
// store that times out halfway through a unit of work.
type faultyStore struct {
	*testutil.MemoryStore
	failSaveOf string
}

func (s *faultyStore) WithAccounts(ctx context.Context, numbers []string, fn func(tx ledger.Tx) error) error {
	return s.MemoryStore.WithAccounts(ctx, numbers, func(tx ledger.Tx) error {
		return fn(&faultyTx{Tx: tx, failSaveOf: s.failSaveOf})
	})
}

type faultyTx struct {
	ledger.Tx
	failSaveOf string
}

var errInjected = errors.New("injected write timeout")

func (t *faultyTx) SaveAccount(ctx context.Context, acct *domain.Account) error {
	if acct.AccountNumber == t.failSaveOf {
		return errors.Join(domain.ErrStoreUnavailable, errInjected)
	}
	return t.Tx.SaveAccount(ctx, acct)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.users.AddUser("alice")
	bob := f.users.AddUser("bob")
	a := f.open(t, alice, domain.AccountTypeChecking, "100.00")
	b := f.open(t, bob, domain.AccountTypeChecking, "20.00")
	before := f.store.RecordCount()

	res, err := f.svc.Transfer(ctx, ledger.TransferRequest{
		From:    a.AccountNumber,
		To:      b.AccountNumber,
		Amount:  amt("50.00"),
		OwnerID: alice,
	})
	require.NoError(t, err)

	f.assertBalance(t, a.AccountNumber, "50.00")
	f.assertBalance(t, b.AccountNumber, "70.00")
	assert.Equal(t, before+3, f.store.RecordCount())

	assert.Equal(t, domain.TransactionTypeWithdrawal, res.Withdrawal.Type)
	assert.Equal(t, domain.TransactionTypeDeposit, res.Deposit.Type)
	assert.Equal(t, domain.TransactionTypeTransfer, res.Transfer.Type)
	assert.Equal(t, a.AccountNumber, *res.Transfer.SourceAccount)
	assert.Equal(t, b.AccountNumber, *res.Transfer.DestinationAccount)

	history, err := f.svc.History(ctx, a.AccountNumber, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.TransactionTypeTransfer, history[0].Type)
	assert.Equal(t, domain.TransactionTypeWithdrawal, history[1].Type)
	assert.Equal(t, domain.TransactionTypeDeposit, history[2].Type)
}

func TestTransfer_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.users.AddUser("alice")
	bob := f.users.AddUser("bob")
	a := f.open(t, alice, domain.AccountTypeChecking, "30.00")
	b := f.open(t, bob, domain.AccountTypeChecking, "0")

	tests := []struct {
		name    string
		req     ledger.TransferRequest
		wantErr error
	}{
		{
			name:    "same account",
			req:     ledger.TransferRequest{From: a.AccountNumber, To: a.AccountNumber, Amount: amt("1"), OwnerID: alice},
			wantErr: domain.ErrSameAccount,
		},
		{
			name:    "zero amount",
			req:     ledger.TransferRequest{From: a.AccountNumber, To: b.AccountNumber, Amount: amt("0"), OwnerID: alice},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "source not owned",
			req:     ledger.TransferRequest{From: a.AccountNumber, To: b.AccountNumber, Amount: amt("1"), OwnerID: bob},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "insufficient funds",
			req:     ledger.TransferRequest{From: a.AccountNumber, To: b.AccountNumber, Amount: amt("30.01"), OwnerID: alice},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:    "unknown source",
			req:     ledger.TransferRequest{From: "8889999999", To: b.AccountNumber, Amount: amt("1"), OwnerID: alice},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := f.store.RecordCount()
			_, err := f.svc.Transfer(ctx, tc.req)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, f.store.RecordCount())
		})
	}

	f.assertBalance(t, a.AccountNumber, "30.00")
	f.assertBalance(t, b.AccountNumber, "0")
}

func TestTransfer_DestinationLegFailureRestoresSource(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(t *testing.T, f *fixture, to string)
		to      string
		wantErr error
	}{
		{
			name:    "destination missing",
			to:      "8889999999",
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "destination frozen",
			prepare: func(t *testing.T, f *fixture, to string) {
				_, err := f.svc.SetAccountStatus(ctx, to, domain.AccountStatusFrozen)
				require.NoError(t, err)
			},
			wantErr: domain.ErrAccountNotActive,
		},
		{
			name: "destination closed",
			prepare: func(t *testing.T, f *fixture, to string) {
				acct, err := f.store.GetAccount(ctx, to)
				require.NoError(t, err)
				require.NoError(t, f.svc.CloseAccount(ctx, to, acct.OwnerID))
			},
			wantErr: domain.ErrAccountNotActive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			alice := f.users.AddUser("alice")
			bob := f.users.AddUser("bob")
			a := f.open(t, alice, domain.AccountTypeChecking, "100.00")
			b := f.open(t, bob, domain.AccountTypeChecking, "0")

			to := tc.to
			if to == "" {
				to = b.AccountNumber
			}
			if tc.prepare != nil {
				tc.prepare(t, f, to)
			}
			before := f.store.RecordCount()

			_, err := f.svc.Transfer(ctx, ledger.TransferRequest{
				From: a.AccountNumber, To: to, Amount: amt("25.00"), OwnerID: alice,
			})
			require.ErrorIs(t, err, tc.wantErr)

			f.assertBalance(t, a.AccountNumber, "100.00")
			f.assertBalance(t, b.AccountNumber, "0")
			assert.Equal(t, before, f.store.RecordCount())
		})
	}
}

func TestTransfer_DestinationAtBalanceLimitRestoresSource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.users.AddUser("alice")
	bob := f.users.AddUser("bob")
	a := f.open(t, alice, domain.AccountTypeChecking, "100.00")
	b := f.open(t, bob, domain.AccountTypeChecking, "99999999999999999.99")
	before := f.store.RecordCount()

	_, err := f.svc.Transfer(ctx, ledger.TransferRequest{
		From: a.AccountNumber, To: b.AccountNumber, Amount: amt("0.01"), OwnerID: alice,
	})
	require.ErrorIs(t, err, domain.ErrBalanceLimitExceeded)

	f.assertBalance(t, a.AccountNumber, "100.00")
	f.assertBalance(t, b.AccountNumber, "99999999999999999.99")
	assert.Equal(t, before, f.store.RecordCount())
}

func TestTransfer_StoreFailureOnDepositLeg(t *testing.T) {
	ctx := context.Background()
	mem := testutil.NewMemoryStore()
	users := testutil.NewUserDirectory()
	setup := newService(mem, users)

	alice := users.AddUser("alice")
	bob := users.AddUser("bob")
	a, err := setup.OpenAccount(ctx, alice, domain.AccountTypeChecking, amt("80.00"))
	require.NoError(t, err)
	b, err := setup.OpenAccount(ctx, bob, domain.AccountTypeSavings, amt("5.00"))
	require.NoError(t, err)
	before := mem.RecordCount()

	svc := newService(&faultyStore{MemoryStore: mem, failSaveOf: b.AccountNumber}, users)
	_, err = svc.Transfer(ctx, ledger.TransferRequest{
		From: a.AccountNumber, To: b.AccountNumber, Amount: amt("30.00"), OwnerID: alice,
	})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.ErrorIs(t, err, errInjected)

	src, err := mem.GetAccount(ctx, a.AccountNumber)
	require.NoError(t, err)
	dst, err := mem.GetAccount(ctx, b.AccountNumber)
	require.NoError(t, err)
	assert.True(t, src.Balance.Equal(amt("80.00")), "source balance %s", src.Balance)
	assert.True(t, dst.Balance.Equal(amt("5.00")), "destination balance %s", dst.Balance)
	assert.Equal(t, before, mem.RecordCount())
}

func TestTransfer_OppositeDirectionsConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.users.AddUser("alice")
	bob := f.users.AddUser("bob")
	a := f.open(t, alice, domain.AccountTypeChecking, "50.00")
	b := f.open(t, bob, domain.AccountTypeChecking, "50.00")

	const rounds = 50
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	for range rounds {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.svc.Transfer(ctx, ledger.TransferRequest{From: a.AccountNumber, To: b.AccountNumber, Amount: amt("10.00"), OwnerID: alice})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := f.svc.Transfer(ctx, ledger.TransferRequest{From: b.AccountNumber, To: a.AccountNumber, Amount: amt("10.00"), OwnerID: bob})
			errs <- err
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("transfers deadlocked")
	}
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 2*rounds, succeeded)
	f.assertBalance(t, a.AccountNumber, "50.00")
	f.assertBalance(t, b.AccountNumber, "50.00")
}

func TestTransfer_ConservesTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	users := make([]struct {
		id     uuid.UUID
		number string
	}, 4)
	for i := range users {
		id := f.users.AddUser("user")
		acct := f.open(t, id, domain.AccountTypeChecking, "25.00")
		users[i].id = id
		users[i].number = acct.AccountNumber
	}

	var wg sync.WaitGroup
	for i := range 40 {
		from := users[i%4]
		to := users[(i+1)%4]
		wg.Add(1)
		go func() {
			defer wg.Done()
			// failures from insufficient funds are expected and must not leak money
			_, _ = f.svc.Transfer(ctx, ledger.TransferRequest{From: from.number, To: to.number, Amount: amt("7.50"), OwnerID: from.id})
		}()
	}
	wg.Wait()

	total := amt("0")
	for _, u := range users {
		acct, err := f.store.GetAccount(ctx, u.number)
		require.NoError(t, err)
		assert.False(t, acct.Balance.IsNegative())
		total = total.Add(acct.Balance)
	}
	assert.True(t, total.Equal(amt("100.00")), "total %s", total)
}
