package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits the ledger stores.
const AmountScale = 2

// MaxAmount is the largest value a NUMERIC(19,2) column holds. It bounds
// both single amounts and balances.
var MaxAmount = decimal.RequireFromString("99999999999999999.99")

// ValidateAmount checks that a transaction amount is positive and
// representable at AmountScale without rounding.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("ValidateAmount: %w", ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(AmountScale)) {
		return fmt.Errorf("ValidateAmount: more than %d decimal places: %w", AmountScale, ErrInvalidAmount)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("ValidateAmount: above %s: %w", MaxAmount, ErrInvalidAmount)
	}
	return nil
}

// ValidateInitialDeposit is ValidateAmount that also accepts zero.
func ValidateInitialDeposit(amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	return ValidateAmount(amount)
}
