package main

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
)

// formatAmount renders a ledger amount in the currency's display format.
// Unknown currency codes fall back to the plain decimal and the code.
func formatAmount(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(domain.AmountScale) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// signedAmount shows money leaving the account as negative. TRANSFER
// summaries are signed the same way as their legs.
func signedAmount(t domain.Transaction, number, code string) string {
	amount := t.Amount
	if t.SourceAccount != nil && *t.SourceAccount == number {
		amount = amount.Neg()
	}
	return formatAmount(amount, code)
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
