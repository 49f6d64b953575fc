package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/logging"
	"github.com/shopspring/decimal"
)

// OpenAccount creates an ACTIVE account for the owner. A positive initial
// deposit becomes the opening balance and is recorded as a DEPOSIT.
func (s *Service) OpenAccount(ctx context.Context, ownerID uuid.UUID, accountType domain.AccountType, initialDeposit decimal.Decimal) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if _, err := s.requireActiveUser(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
	if !accountType.IsValid() {
		return nil, fmt.Errorf("OpenAccount: %q: %w", accountType, domain.ErrInvalidAccountType)
	}
	if err := domain.ValidateInitialDeposit(initialDeposit); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}

	existing, err := s.store.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
	for _, a := range existing {
		if a.AccountType == accountType && a.Status != domain.AccountStatusClosed {
			return nil, fmt.Errorf("OpenAccount: %s: %w", accountType, domain.ErrDuplicateAccountType)
		}
	}

	for attempt := 1; attempt <= s.numberAttempts; attempt++ {
		number, err := s.nextFreeNumber(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNumberTaken) {
				continue
			}
			return nil, fmt.Errorf("OpenAccount: %w", err)
		}

		now := s.now()
		acct := &domain.Account{
			AccountNumber: number,
			OwnerID:       ownerID,
			AccountType:   accountType,
			Balance:       initialDeposit,
			Status:        domain.AccountStatusActive,
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		var opening *domain.Transaction
		if initialDeposit.IsPositive() {
			opening = domain.NewDeposit(number, initialDeposit, now)
		}

		err = s.store.CreateAccount(ctx, acct, opening)
		if errors.Is(err, domain.ErrAccountNumberTaken) {
			log.Warn("account number collision on insert", "account_number", number, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("OpenAccount: %w", err)
		}

		log.Info("account opened",
			"account_number", acct.AccountNumber,
			"owner_id", ownerID,
			"account_type", accountType,
			"initial_deposit", initialDeposit.StringFixed(domain.AmountScale),
		)
		return acct, nil
	}

	return nil, fmt.Errorf("OpenAccount: after %d attempts: %w", s.numberAttempts, domain.ErrIDGenerationExhausted)
}

// nextFreeNumber draws one candidate and checks it against the store.
// Uniqueness is confirmed again by CreateAccount.
func (s *Service) nextFreeNumber(ctx context.Context) (string, error) {
	number, err := s.newNumber()
	if err != nil {
		return "", fmt.Errorf("nextFreeNumber: %w", err)
	}
	taken, err := s.store.AccountNumberExists(ctx, number)
	if err != nil {
		return "", fmt.Errorf("nextFreeNumber: %w", err)
	}
	if taken {
		return "", fmt.Errorf("nextFreeNumber: %s: %w", number, domain.ErrAccountNumberTaken)
	}
	return number, nil
}

// CloseAccount tombstones an owner's account once its balance is exactly zero.
func (s *Service) CloseAccount(ctx context.Context, number string, ownerID uuid.UUID) error {
	err := s.store.WithAccounts(ctx, []string{number}, func(tx Tx) error {
		acct, err := tx.Account(ctx, number)
		if err != nil {
			return err
		}
		if err := verifyOwner(acct, ownerID); err != nil {
			return err
		}
		return s.closeLocked(ctx, tx, acct)
	})
	if err != nil {
		return fmt.Errorf("CloseAccount: %w", err)
	}

	logging.FromContext(ctx).Info("account closed", "account_number", number, "owner_id", ownerID)
	return nil
}

func (s *Service) closeLocked(ctx context.Context, tx Tx, acct *domain.Account) error {
	if !acct.IsActive() {
		return fmt.Errorf("account %s is %s: %w", acct.AccountNumber, acct.Status, domain.ErrAccountNotActive)
	}
	if !acct.Balance.IsZero() {
		return fmt.Errorf("account %s holds %s: %w", acct.AccountNumber, acct.Balance.StringFixed(domain.AmountScale), domain.ErrNonZeroBalance)
	}

	now := s.now()
	acct.Status = domain.AccountStatusClosed
	acct.ClosedAt = &now
	acct.UpdatedAt = now
	acct.Version++
	return tx.SaveAccount(ctx, acct)
}

// CloseOwnerAccounts closes every open account of a removed owner. Nothing is
// closed unless all of them have a zero balance.
func (s *Service) CloseOwnerAccounts(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	accounts, err := s.store.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("CloseOwnerAccounts: %w", err)
	}

	var numbers []string
	for _, a := range accounts {
		if a.Status != domain.AccountStatusClosed {
			numbers = append(numbers, a.AccountNumber)
		}
	}
	if len(numbers) == 0 {
		return nil, nil
	}

	err = s.store.WithAccounts(ctx, numbers, func(tx Tx) error {
		locked := make([]*domain.Account, 0, len(numbers))
		for _, n := range numbers {
			acct, err := tx.Account(ctx, n)
			if err != nil {
				return err
			}
			if !acct.Balance.IsZero() {
				return fmt.Errorf("account %s: %w", n, domain.ErrNonZeroBalance)
			}
			locked = append(locked, acct)
		}

		now := s.now()
		for _, acct := range locked {
			if acct.Status == domain.AccountStatusClosed {
				continue
			}
			acct.Status = domain.AccountStatusClosed
			acct.ClosedAt = &now
			acct.UpdatedAt = now
			acct.Version++
			if err := tx.SaveAccount(ctx, acct); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("CloseOwnerAccounts: %w", err)
	}

	logging.FromContext(ctx).Info("owner accounts closed", "owner_id", ownerID, "count", len(numbers))
	return numbers, nil
}

// SetAccountStatus moves an account between ACTIVE and FROZEN. CLOSED is
// terminal and closing goes through CloseAccount.
func (s *Service) SetAccountStatus(ctx context.Context, number string, status domain.AccountStatus) (*domain.Account, error) {
	if status != domain.AccountStatusActive && status != domain.AccountStatusFrozen {
		return nil, fmt.Errorf("SetAccountStatus: to %q: %w", status, domain.ErrInvalidStatusTransition)
	}

	var updated *domain.Account
	err := s.store.WithAccounts(ctx, []string{number}, func(tx Tx) error {
		acct, err := tx.Account(ctx, number)
		if err != nil {
			return err
		}
		if acct.Status == domain.AccountStatusClosed {
			return fmt.Errorf("account %s: %w", number, domain.ErrAccountNotActive)
		}
		updated = acct
		if acct.Status == status {
			return nil
		}
		acct.Status = status
		acct.UpdatedAt = s.now()
		acct.Version++
		return tx.SaveAccount(ctx, acct)
	})
	if err != nil {
		return nil, fmt.Errorf("SetAccountStatus: %w", err)
	}

	logging.FromContext(ctx).Info("account status changed", "account_number", number, "status", status)
	return updated, nil
}

// GetAccount returns an account if ownerID owns it.
func (s *Service) GetAccount(ctx context.Context, number string, ownerID uuid.UUID) (*domain.Account, error) {
	acct, err := s.store.GetAccount(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	if err := verifyOwner(acct, ownerID); err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return acct, nil
}

// LookupAccount returns an account without an ownership check. It backs
// administrative tooling only.
func (s *Service) LookupAccount(ctx context.Context, number string) (*domain.Account, error) {
	acct, err := s.store.GetAccount(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("LookupAccount: %w", err)
	}
	return acct, nil
}

func (s *Service) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	if _, err := s.requireActiveUser(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	accounts, err := s.store.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}
