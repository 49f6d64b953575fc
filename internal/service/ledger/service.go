package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultNumberAttempts = 10

type userDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Service owns every balance and status mutation and is the only author of
// transaction records.
type Service struct {
	store          Store
	users          userDirectory
	numberAttempts int

	now       func() time.Time
	newNumber func() (string, error)
}

func NewService(store Store, users userDirectory, numberAttempts int) *Service {
	if numberAttempts < 1 {
		numberAttempts = DefaultNumberAttempts
	}
	return &Service{
		store:          store,
		users:          users,
		numberAttempts: numberAttempts,
		now:            func() time.Time { return time.Now().UTC() },
		newNumber:      generateAccountNumber,
	}
}

// adjustBalance applies a signed delta to an account locked by tx. It is the
// single mutation primitive behind every deposit and withdrawal leg.
func (s *Service) adjustBalance(ctx context.Context, tx Tx, number string, delta decimal.Decimal) (decimal.Decimal, error) {
	acct, err := tx.Account(ctx, number)
	if err != nil {
		return decimal.Zero, fmt.Errorf("adjustBalance: %w", err)
	}
	if !acct.IsActive() {
		return decimal.Zero, fmt.Errorf("adjustBalance: %s is %s: %w", number, acct.Status, domain.ErrAccountNotActive)
	}

	next := acct.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("adjustBalance: %w", domain.ErrInsufficientFunds)
	}
	if next.GreaterThan(domain.MaxAmount) {
		return decimal.Zero, fmt.Errorf("adjustBalance: %s: %w", number, domain.ErrBalanceLimitExceeded)
	}

	acct.Balance = next
	acct.Version++
	acct.UpdatedAt = s.now()
	if err := tx.SaveAccount(ctx, acct); err != nil {
		return decimal.Zero, fmt.Errorf("adjustBalance: %w", err)
	}
	return next, nil
}

// requireActiveUser resolves the user and checks it may act on its accounts.
func (s *Service) requireActiveUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("requireActiveUser: %w", domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("requireActiveUser: %w", err)
	}
	if u.Status != domain.UserStatusActive {
		return nil, fmt.Errorf("requireActiveUser: user is %s: %w", u.Status, domain.ErrOwnerNotActive)
	}
	return u, nil
}

func verifyOwner(acct *domain.Account, ownerID uuid.UUID) error {
	if !acct.OwnedBy(ownerID) {
		return fmt.Errorf("account %s: %w", acct.AccountNumber, domain.ErrForbidden)
	}
	return nil
}
