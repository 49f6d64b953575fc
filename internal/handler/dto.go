package handler

import (
	"time"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
)

type accountDTO struct {
	AccountNumber string     `json:"account_number"`
	AccountType   string     `json:"account_type"`
	Balance       string     `json:"balance"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.AccountType),
		Balance:       a.Balance.StringFixed(domain.AmountScale),
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		ClosedAt:      a.ClosedAt,
	}
}

type transactionDTO struct {
	ID                 int64     `json:"id"`
	Type               string    `json:"type"`
	Amount             string    `json:"amount"`
	SourceAccount      *string   `json:"source_account"`
	DestinationAccount *string   `json:"destination_account"`
	CreatedAt          time.Time `json:"created_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:                 t.ID,
		Type:               string(t.Type),
		Amount:             t.Amount.StringFixed(domain.AmountScale),
		SourceAccount:      t.SourceAccount,
		DestinationAccount: t.DestinationAccount,
		CreatedAt:          t.CreatedAt,
	}
}

func toTransactionDTOs(recs []domain.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(recs))
	for i := range recs {
		out = append(out, toTransactionDTO(&recs[i]))
	}
	return out
}
