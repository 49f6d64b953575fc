package ledger_test

import (
	"context"
	"testing"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.users.AddUser("alice")
	bob := f.users.AddUser("bob")
	a := f.open(t, alice, domain.AccountTypeChecking, "10.00")
	b := f.open(t, bob, domain.AccountTypeChecking, "0")

	_, err := f.svc.Deposit(ctx, a.AccountNumber, amt("5.00"))
	require.NoError(t, err)
	_, err = f.svc.Withdraw(ctx, a.AccountNumber, amt("1.00"), alice)
	require.NoError(t, err)
	_, err = f.svc.Transfer(ctx, ledger.TransferRequest{From: a.AccountNumber, To: b.AccountNumber, Amount: amt("4.00"), OwnerID: alice})
	require.NoError(t, err)

	all, err := f.svc.History(ctx, a.AccountNumber, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "records must be newest first")
	}
	for _, rec := range all {
		assert.True(t, rec.Involves(a.AccountNumber))
	}

	limited, err := f.svc.History(ctx, a.AccountNumber, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, all[:2], limited)

	bobs, err := f.svc.History(ctx, b.AccountNumber, 0)
	require.NoError(t, err)
	require.Len(t, bobs, 2)
	assert.Equal(t, domain.TransactionTypeTransfer, bobs[0].Type)
	assert.Equal(t, domain.TransactionTypeDeposit, bobs[1].Type)
}

func TestHistory_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.History(context.Background(), "8889999999", 0)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestHistoryForOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.users.AddUser("alice")
	bob := f.users.AddUser("bob")
	a := f.open(t, alice, domain.AccountTypeChecking, "10.00")

	recs, err := f.svc.HistoryForOwner(ctx, a.AccountNumber, alice, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, err = f.svc.HistoryForOwner(ctx, a.AccountNumber, bob, 10)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestHistory_SurvivesClosure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.users.AddUser("alice")
	a := f.open(t, alice, domain.AccountTypeSavings, "3.00")
	_, err := f.svc.Withdraw(ctx, a.AccountNumber, amt("3.00"), alice)
	require.NoError(t, err)
	require.NoError(t, f.svc.CloseAccount(ctx, a.AccountNumber, alice))

	recs, err := f.svc.History(ctx, a.AccountNumber, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}
