package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
)

var _ ledger.Store = (*LedgerStore)(nil)

// LedgerStore is the PostgreSQL ledger.Store. A unit of work is one
// database transaction holding row locks on the named accounts.
type LedgerStore struct {
	db           *DB
	accounts     *AccountRepository
	transactions *TransactionRepository
}

func NewLedgerStore(db *DB, accounts *AccountRepository, transactions *TransactionRepository) *LedgerStore {
	return &LedgerStore{db: db, accounts: accounts, transactions: transactions}
}

func (s *LedgerStore) WithAccounts(ctx context.Context, numbers []string, fn func(tx ledger.Tx) error) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		locked, err := lockAccountsInOrder(ctx, tx, s.accounts, numbers)
		if err != nil {
			return fmt.Errorf("WithAccounts: %w", err)
		}
		return fn(&pgTx{tx: tx, store: s, locked: locked})
	})
}

// lockAccountsInOrder takes row locks in ascending account-number order so
// concurrent units naming the same accounts cannot deadlock. Accounts that
// do not exist map to nil.
func lockAccountsInOrder(ctx context.Context, tx *sql.Tx, accounts *AccountRepository, numbers []string) (map[string]*domain.Account, error) {
	ordered := slices.Clone(numbers)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	locked := make(map[string]*domain.Account, len(ordered))
	for _, n := range ordered {
		a, err := accounts.GetForUpdate(ctx, tx, n)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				locked[n] = nil
				continue
			}
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		locked[n] = a
	}
	return locked, nil
}

func (s *LedgerStore) CreateAccount(ctx context.Context, acct *domain.Account, opening *domain.Transaction) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.accounts.Create(ctx, tx, acct); err != nil {
			return fmt.Errorf("CreateAccount: %w", err)
		}
		if opening != nil {
			if err := s.transactions.Create(ctx, tx, opening); err != nil {
				return fmt.Errorf("CreateAccount: opening deposit: %w", err)
			}
		}
		return nil
	})
}

func (s *LedgerStore) AccountNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := s.db.Guard(func() error {
		var err error
		exists, err = s.accounts.Exists(ctx, number)
		return err
	})
	return exists, err
}

func (s *LedgerStore) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	var acct *domain.Account
	err := s.db.Guard(func() error {
		var err error
		acct, err = s.accounts.GetByNumber(ctx, number)
		return err
	})
	return acct, err
}

func (s *LedgerStore) ListAccountsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	var accounts []domain.Account
	err := s.db.Guard(func() error {
		var err error
		accounts, err = s.accounts.ListByOwner(ctx, ownerID)
		return err
	})
	return accounts, err
}

func (s *LedgerStore) History(ctx context.Context, number string, limit int) ([]domain.Transaction, error) {
	var recs []domain.Transaction
	err := s.db.Guard(func() error {
		var err error
		recs, err = s.transactions.ListByAccount(ctx, number, limit)
		return err
	})
	return recs, err
}

func (s *LedgerStore) HistoryForAccounts(ctx context.Context, numbers []string, limit int) ([]domain.Transaction, error) {
	var recs []domain.Transaction
	err := s.db.Guard(func() error {
		var err error
		recs, err = s.transactions.ListByAccounts(ctx, numbers, limit)
		return err
	})
	return recs, err
}

type pgTx struct {
	tx     *sql.Tx
	store  *LedgerStore
	locked map[string]*domain.Account
}

func (t *pgTx) Account(ctx context.Context, number string) (*domain.Account, error) {
	a, ok := t.locked[number]
	if !ok {
		return nil, fmt.Errorf("Account: %s is not part of this unit of work", number)
	}
	if a == nil {
		return nil, fmt.Errorf("Account: %s: %w", number, domain.ErrAccountNotFound)
	}
	cp := *a
	return &cp, nil
}

func (t *pgTx) SaveAccount(ctx context.Context, acct *domain.Account) error {
	if current, ok := t.locked[acct.AccountNumber]; !ok || current == nil {
		return fmt.Errorf("SaveAccount: %s is not locked by this unit of work", acct.AccountNumber)
	}
	if err := t.store.accounts.Update(ctx, t.tx, acct); err != nil {
		return fmt.Errorf("SaveAccount: %w", err)
	}
	cp := *acct
	t.locked[acct.AccountNumber] = &cp
	return nil
}

func (t *pgTx) Append(ctx context.Context, rec *domain.Transaction) error {
	if err := t.store.transactions.Create(ctx, t.tx, rec); err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}
