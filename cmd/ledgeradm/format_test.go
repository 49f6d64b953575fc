package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"1234.50", "USD", "$1,234.50"},
		{"0", "USD", "$0.00"},
		{"-25.00", "USD", "-$25.00"},
		{"10.00", "EUR", "€10.00"},
		{"7.25", "XYZ", "7.25 XYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.code, func(t *testing.T) {
			got := formatAmount(decimal.RequireFromString(tt.amount), tt.code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignedAmount(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := *domain.NewTransfer("8880000001", "8880000002", decimal.RequireFromString("5"), at)

	assert.Equal(t, "-$5.00", signedAmount(tr, "8880000001", "USD"))
	assert.Equal(t, "$5.00", signedAmount(tr, "8880000002", "USD"))
	assert.Equal(t, "-", orDash(nil))
}
