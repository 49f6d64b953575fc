package testutil

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const TestPassword = "password123"

var seedCounter atomic.Int64

func SeedUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Status, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// SeedAccount inserts an ACTIVE account directly, without an opening record.
func SeedAccount(t *testing.T, db *sql.DB, ownerID uuid.UUID, accountType domain.AccountType, balance string) *domain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := &domain.Account{
		AccountNumber: fmt.Sprintf("888%07d", seedCounter.Add(1)),
		OwnerID:       ownerID,
		AccountType:   accountType,
		Balance:       decimal.RequireFromString(balance),
		Status:        domain.AccountStatusActive,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := db.Exec(
		`INSERT INTO accounts (account_number, owner_id, account_type, balance, status, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.AccountNumber, a.OwnerID, a.AccountType, a.Balance, a.Status, a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed account for %s: %v", ownerID, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, number string) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE account_number = $1`, number).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", number, err)
	}
	return balance
}

// CountTransactions counts records naming the account on either side.
func CountTransactions(t *testing.T, db *sql.DB, number string) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE source_account = $1 OR destination_account = $1`, number,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for %s: %v", number, err)
	}
	return count
}
