package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/logging"
	"github.com/shopspring/decimal"
)

// Deposit credits an account. Any caller may deposit into any ACTIVE account.
func (s *Service) Deposit(ctx context.Context, number string, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	var rec *domain.Transaction
	err := s.store.WithAccounts(ctx, []string{number}, func(tx Tx) error {
		if _, err := s.adjustBalance(ctx, tx, number, amount); err != nil {
			return err
		}
		rec = domain.NewDeposit(number, amount, s.now())
		return tx.Append(ctx, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	logging.FromContext(ctx).Info("deposit completed",
		"transaction_id", rec.ID,
		"account_number", number,
		"amount", amount.StringFixed(domain.AmountScale),
	)
	return rec, nil
}

// Withdraw debits an account owned by the requesting user.
func (s *Service) Withdraw(ctx context.Context, number string, amount decimal.Decimal, ownerID uuid.UUID) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}
	if _, err := s.requireActiveUser(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	var rec *domain.Transaction
	err := s.store.WithAccounts(ctx, []string{number}, func(tx Tx) error {
		var err error
		rec, err = s.withdrawLocked(ctx, tx, number, amount, ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	logging.FromContext(ctx).Info("withdrawal completed",
		"transaction_id", rec.ID,
		"account_number", number,
		"owner_id", ownerID,
		"amount", amount.StringFixed(domain.AmountScale),
	)
	return rec, nil
}

func (s *Service) withdrawLocked(ctx context.Context, tx Tx, number string, amount decimal.Decimal, ownerID uuid.UUID) (*domain.Transaction, error) {
	acct, err := tx.Account(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := verifyOwner(acct, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.adjustBalance(ctx, tx, number, amount.Neg()); err != nil {
		return nil, err
	}
	rec := domain.NewWithdrawal(number, amount, s.now())
	if err := tx.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) depositLocked(ctx context.Context, tx Tx, number string, amount decimal.Decimal) (*domain.Transaction, error) {
	if _, err := s.adjustBalance(ctx, tx, number, amount); err != nil {
		return nil, err
	}
	rec := domain.NewDeposit(number, amount, s.now())
	if err := tx.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
