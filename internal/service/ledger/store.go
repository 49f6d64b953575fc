package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
)

// Store is the durable home of accounts and transaction records.
type Store interface {
	// WithAccounts runs fn as one unit of work holding an exclusive lock on
	// every named account. Locks are taken in ascending account-number order
	// whatever the order of numbers. Records appended through the Tx become
	// visible only if fn returns nil.
	WithAccounts(ctx context.Context, numbers []string, fn func(tx Tx) error) error

	// CreateAccount inserts a new account and, when opening is non-nil, its
	// opening DEPOSIT record in the same unit of work. It fails with
	// domain.ErrAccountNumberTaken or domain.ErrDuplicateAccountType when the
	// store already holds a conflicting account.
	CreateAccount(ctx context.Context, acct *domain.Account, opening *domain.Transaction) error

	AccountNumberExists(ctx context.Context, number string) (bool, error)
	GetAccount(ctx context.Context, number string) (*domain.Account, error)
	ListAccountsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error)

	// History returns the records naming the account as source or
	// destination, newest first. limit <= 0 means no limit.
	History(ctx context.Context, number string, limit int) ([]domain.Transaction, error)

	// HistoryForAccounts is History over several accounts. A record naming
	// two of them appears once.
	HistoryForAccounts(ctx context.Context, numbers []string, limit int) ([]domain.Transaction, error)
}

// Tx is the view of the store inside WithAccounts. Only accounts named in
// the WithAccounts call may be read or saved through it.
type Tx interface {
	Account(ctx context.Context, number string) (*domain.Account, error)
	SaveAccount(ctx context.Context, acct *domain.Account) error
	// Append assigns rec.ID.
	Append(ctx context.Context, rec *domain.Transaction) error
}
