package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Transaction is one immutable ledger record. ID is assigned by the store
// when the record is appended.
type Transaction struct {
	ID                 int64
	Type               TransactionType
	Amount             decimal.Decimal
	SourceAccount      *string
	DestinationAccount *string
	CreatedAt          time.Time
}

// Involves reports whether the account is either side of the record.
func (t *Transaction) Involves(accountNumber string) bool {
	return (t.SourceAccount != nil && *t.SourceAccount == accountNumber) ||
		(t.DestinationAccount != nil && *t.DestinationAccount == accountNumber)
}

func NewDeposit(accountNumber string, amount decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		Type:               TransactionTypeDeposit,
		Amount:             amount,
		DestinationAccount: &accountNumber,
		CreatedAt:          at,
	}
}

func NewWithdrawal(accountNumber string, amount decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		Type:          TransactionTypeWithdrawal,
		Amount:        amount,
		SourceAccount: &accountNumber,
		CreatedAt:     at,
	}
}

func NewTransfer(from, to string, amount decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		Type:               TransactionTypeTransfer,
		Amount:             amount,
		SourceAccount:      &from,
		DestinationAccount: &to,
		CreatedAt:          at,
	}
}
