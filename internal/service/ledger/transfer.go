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

type TransferRequest struct {
	From    string
	To      string
	Amount  decimal.Decimal
	OwnerID uuid.UUID
}

// TransferResult holds the three records a completed transfer writes.
type TransferResult struct {
	Withdrawal *domain.Transaction
	Deposit    *domain.Transaction
	Transfer   *domain.Transaction
}

// Transfer moves funds between two accounts as a withdrawal leg from From,
// a deposit leg into To and a TRANSFER summary record. Either all three
// records exist afterwards or the ledger is unchanged.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	log := logging.FromContext(ctx)

	if req.From == req.To {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrSameAccount)
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	if _, err := s.requireActiveUser(ctx, req.OwnerID); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	var res TransferResult
	err := s.store.WithAccounts(ctx, []string{req.From, req.To}, func(tx Tx) error {
		wd, err := s.withdrawLocked(ctx, tx, req.From, req.Amount, req.OwnerID)
		if err != nil {
			return fmt.Errorf("withdraw leg: %w", err)
		}

		dep, err := s.depositLocked(ctx, tx, req.To, req.Amount)
		if err != nil {
			legErr := fmt.Errorf("deposit leg: %w", err)
			if cerr := s.compensate(ctx, tx, req.From, req.Amount); cerr != nil {
				log.Error("transfer compensation failed",
					"from", req.From,
					"to", req.To,
					"amount", req.Amount.StringFixed(domain.AmountScale),
					"error", cerr,
				)
				return errors.Join(legErr, cerr)
			}
			log.Warn("transfer deposit leg failed, source re-credited",
				"from", req.From,
				"to", req.To,
				"amount", req.Amount.StringFixed(domain.AmountScale),
				"error", err,
			)
			return legErr
		}

		summary := domain.NewTransfer(req.From, req.To, req.Amount, s.now())
		if err := tx.Append(ctx, summary); err != nil {
			legErr := fmt.Errorf("summary: %w", err)
			if cerr := s.reverseBoth(ctx, tx, req); cerr != nil {
				return errors.Join(legErr, cerr)
			}
			return legErr
		}

		res = TransferResult{Withdrawal: wd, Deposit: dep, Transfer: summary}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	log.Info("transfer completed",
		"transaction_id", res.Transfer.ID,
		"from", req.From,
		"to", req.To,
		"owner_id", req.OwnerID,
		"amount", req.Amount.StringFixed(domain.AmountScale),
	)
	return &res, nil
}

// compensate re-credits the source of a transfer whose deposit leg failed.
// It bypasses the status check since the source was ACTIVE a moment ago
// under the same lock.
func (s *Service) compensate(ctx context.Context, tx Tx, number string, amount decimal.Decimal) error {
	acct, err := tx.Account(ctx, number)
	if err != nil {
		return fmt.Errorf("compensate: %w", err)
	}
	acct.Balance = acct.Balance.Add(amount)
	acct.Version++
	acct.UpdatedAt = s.now()
	if err := tx.SaveAccount(ctx, acct); err != nil {
		return fmt.Errorf("compensate: %w", err)
	}
	return nil
}

func (s *Service) reverseBoth(ctx context.Context, tx Tx, req TransferRequest) error {
	acct, err := tx.Account(ctx, req.To)
	if err != nil {
		return fmt.Errorf("reverseBoth: %w", err)
	}
	acct.Balance = acct.Balance.Sub(req.Amount)
	acct.Version++
	acct.UpdatedAt = s.now()
	if err := tx.SaveAccount(ctx, acct); err != nil {
		return fmt.Errorf("reverseBoth: %w", err)
	}
	return s.compensate(ctx, tx, req.From, req.Amount)
}
