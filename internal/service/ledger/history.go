package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
)

// History returns the records involving an account, newest first.
// limit <= 0 returns all of them.
func (s *Service) History(ctx context.Context, number string, limit int) ([]domain.Transaction, error) {
	if _, err := s.store.GetAccount(ctx, number); err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	recs, err := s.store.History(ctx, number, limit)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	return recs, nil
}

// HistoryForOwner is History restricted to the account's owner.
func (s *Service) HistoryForOwner(ctx context.Context, number string, ownerID uuid.UUID, limit int) ([]domain.Transaction, error) {
	acct, err := s.store.GetAccount(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("HistoryForOwner: %w", err)
	}
	if err := verifyOwner(acct, ownerID); err != nil {
		return nil, fmt.Errorf("HistoryForOwner: %w", err)
	}
	recs, err := s.store.History(ctx, number, limit)
	if err != nil {
		return nil, fmt.Errorf("HistoryForOwner: %w", err)
	}
	return recs, nil
}
