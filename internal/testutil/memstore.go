package testutil

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
)

var (
	_ ledger.Store = (*MemoryStore)(nil)
	_ ledger.Tx    = (*memoryTx)(nil)
)

// MemoryStore is an in-process ledger.Store. Balance writes inside a unit of
// work land immediately while appended records are held back until the unit
// succeeds, so a failed unit leaves no records but keeps any balance change
// the caller did not undo itself.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	records  []domain.Transaction
	nextID   int64

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*domain.Account),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) lockFor(number string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[number]
	if !ok {
		l = &sync.Mutex{}
		s.locks[number] = l
	}
	return l
}

func (s *MemoryStore) WithAccounts(ctx context.Context, numbers []string, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("WithAccounts: %w: %w", domain.ErrStoreUnavailable, err)
	}

	ordered := slices.Clone(numbers)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	for _, n := range ordered {
		s.lockFor(n).Lock()
	}
	defer func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			s.lockFor(ordered[i]).Unlock()
		}
	}()

	tx := &memoryTx{store: s, locked: ordered}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.records = append(s.records, tx.pending...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) CreateAccount(ctx context.Context, acct *domain.Account, opening *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[acct.AccountNumber]; ok {
		return fmt.Errorf("CreateAccount: %w", domain.ErrAccountNumberTaken)
	}
	for _, a := range s.accounts {
		if a.OwnerID == acct.OwnerID && a.AccountType == acct.AccountType && a.Status != domain.AccountStatusClosed {
			return fmt.Errorf("CreateAccount: %w", domain.ErrDuplicateAccountType)
		}
	}

	stored := *acct
	s.accounts[acct.AccountNumber] = &stored

	if opening != nil {
		s.nextID++
		opening.ID = s.nextID
		s.records = append(s.records, *opening)
	}
	return nil
}

func (s *MemoryStore) AccountNumberExists(ctx context.Context, number string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[number]
	return ok, nil
}

func (s *MemoryStore) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[number]
	if !ok {
		return nil, fmt.Errorf("GetAccount: %s: %w", number, domain.ErrAccountNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) ListAccountsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Account
	for _, a := range s.accounts {
		if a.OwnerID == ownerID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) History(ctx context.Context, number string, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	var out []domain.Transaction
	for _, r := range s.records {
		if r.Involves(number) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) HistoryForAccounts(ctx context.Context, numbers []string, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	var out []domain.Transaction
	for _, r := range s.records {
		if slices.ContainsFunc(numbers, r.Involves) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Put stores an account directly, bypassing every check. Test setup only.
func (s *MemoryStore) Put(acct domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.AccountNumber] = &acct
}

// RecordCount returns the number of published records.
func (s *MemoryStore) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

type memoryTx struct {
	store   *MemoryStore
	locked  []string
	pending []domain.Transaction
}

func (t *memoryTx) checkLocked(number string) error {
	if _, found := slices.BinarySearch(t.locked, number); !found {
		return fmt.Errorf("account %s is not part of this unit of work", number)
	}
	return nil
}

func (t *memoryTx) Account(ctx context.Context, number string) (*domain.Account, error) {
	if err := t.checkLocked(number); err != nil {
		return nil, fmt.Errorf("Account: %w", err)
	}
	return t.store.GetAccount(ctx, number)
}

func (t *memoryTx) SaveAccount(ctx context.Context, acct *domain.Account) error {
	if err := t.checkLocked(acct.AccountNumber); err != nil {
		return fmt.Errorf("SaveAccount: %w", err)
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	current, ok := t.store.accounts[acct.AccountNumber]
	if !ok {
		return fmt.Errorf("SaveAccount: %w", domain.ErrAccountNotFound)
	}
	if current.Version != acct.Version-1 {
		return fmt.Errorf("SaveAccount: %w", domain.ErrVersionConflict)
	}
	stored := *acct
	t.store.accounts[acct.AccountNumber] = &stored
	return nil
}

func (t *memoryTx) Append(ctx context.Context, rec *domain.Transaction) error {
	t.store.mu.Lock()
	t.store.nextID++
	rec.ID = t.store.nextID
	t.store.mu.Unlock()

	t.pending = append(t.pending, *rec)
	return nil
}

// UserDirectory is an in-memory user lookup for engine tests.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[uuid.UUID]domain.User)}
}

// AddUser registers an ACTIVE user and returns its id.
func (d *UserDirectory) AddUser(name string) uuid.UUID {
	u := domain.User{
		ID:     uuid.New(),
		Email:  name + "@example.com",
		Name:   name,
		Status: domain.UserStatusActive,
	}
	d.mu.Lock()
	d.users[u.ID] = u
	d.mu.Unlock()
	return u.ID
}

func (d *UserDirectory) SetStatus(id uuid.UUID, status domain.UserStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := d.users[id]
	u.Status = status
	d.users[id] = u
}

func (d *UserDirectory) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrUserNotFound)
	}
	return &u, nil
}

func sortNewestFirst(recs []domain.Transaction) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})
}
