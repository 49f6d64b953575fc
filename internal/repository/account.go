package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
)

const accountColumns = `account_number, owner_id, account_type, balance, status, version,
	created_at, updated_at, closed_at`

type AccountRepository struct {
	db querier
}

// NewAccountRepository takes the handle used for reads outside a unit of
// work, usually a dbresolver.DB.
func NewAccountRepository(db querier) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, number,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByNumber: %s: %w", number, domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByNumber: %w", unavailable(err))
	}
	return a, nil
}

func (r *AccountRepository) Exists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("Exists: %w", unavailable(err))
	}
	return exists, nil
}

func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE owner_id = $1 ORDER BY created_at, account_number`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", unavailable(err))
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByOwner: scan: %w", unavailable(err))
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByOwner: rows: %w", unavailable(err))
	}
	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, tx *sql.Tx, account *domain.Account) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (
			account_number, owner_id, account_type, balance, status, version,
			created_at, updated_at, closed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		account.AccountNumber, account.OwnerID, account.AccountType, account.Balance,
		account.Status, account.Version, account.CreatedAt, account.UpdatedAt, account.ClosedAt,
	)
	if err != nil {
		if constraint, ok := constraintViolation(err); ok {
			switch constraint {
			case constraintAccountsPK:
				return fmt.Errorf("Create: %w", domain.ErrAccountNumberTaken)
			case constraintOwnerTypeOpen:
				return fmt.Errorf("Create: %w", domain.ErrDuplicateAccountType)
			}
		}
		if numericOverflow(err) {
			return fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
		}
		return fmt.Errorf("Create: %w", unavailable(err))
	}
	return nil
}

func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, number string) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1 FOR UPDATE`, number,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %s: %w", number, domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", unavailable(err))
	}
	return a, nil
}

// Update writes the mutable columns of an account whose version was bumped
// by exactly one since it was read.
func (r *AccountRepository) Update(ctx context.Context, tx *sql.Tx, account *domain.Account) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts
		SET balance = $1, status = $2, version = $3, updated_at = $4, closed_at = $5
		WHERE account_number = $6 AND version = $7`,
		account.Balance, account.Status, account.Version, account.UpdatedAt, account.ClosedAt,
		account.AccountNumber, account.Version-1,
	)
	if err != nil {
		if constraint, ok := constraintViolation(err); ok && constraint == constraintBalanceNonNegative {
			return fmt.Errorf("Update: %w", domain.ErrInsufficientFunds)
		}
		if numericOverflow(err) {
			return fmt.Errorf("Update: %s: %w", account.AccountNumber, domain.ErrBalanceLimitExceeded)
		}
		return fmt.Errorf("Update: %w", unavailable(err))
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", unavailable(err))
	}
	if rows == 0 {
		return fmt.Errorf("Update: %w", domain.ErrVersionConflict)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.AccountNumber, &a.OwnerID, &a.AccountType, &a.Balance, &a.Status, &a.Version,
		&a.CreatedAt, &a.UpdatedAt, &a.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
