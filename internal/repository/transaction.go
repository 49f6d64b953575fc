package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/lib/pq"
)

const transactionColumns = `id, transaction_type, amount, source_account, destination_account, created_at`

type TransactionRepository struct {
	db querier
}

func NewTransactionRepository(db querier) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a record and sets its id.
func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, rec *domain.Transaction) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO transactions (transaction_type, amount, source_account, destination_account, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		rec.Type, rec.Amount, rec.SourceAccount, rec.DestinationAccount, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		if numericOverflow(err) {
			return fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
		}
		return fmt.Errorf("Create: %w", unavailable(err))
	}
	return nil
}

// ListByAccount returns records naming the account on either side, newest
// first. limit <= 0 means no limit.
func (r *TransactionRepository) ListByAccount(ctx context.Context, number string, limit int) ([]domain.Transaction, error) {
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE source_account = $1 OR destination_account = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		number, lim,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", unavailable(err))
	}
	defer rows.Close()

	var recs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByAccount: scan: %w", unavailable(err))
		}
		recs = append(recs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccount: rows: %w", unavailable(err))
	}
	return recs, nil
}

// ListByAccounts is ListByAccount over a set of accounts.
func (r *TransactionRepository) ListByAccounts(ctx context.Context, numbers []string, limit int) ([]domain.Transaction, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE source_account = ANY($1) OR destination_account = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		pq.Array(numbers), lim,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccounts: %w", unavailable(err))
	}
	defer rows.Close()

	var recs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByAccounts: scan: %w", unavailable(err))
		}
		recs = append(recs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccounts: rows: %w", unavailable(err))
	}
	return recs, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(&t.ID, &t.Type, &t.Amount, &t.SourceAccount, &t.DestinationAccount, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
