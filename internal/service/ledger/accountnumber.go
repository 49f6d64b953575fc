package ledger

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	accountNumberPrefix = "888"
	accountNumberDigits = 7
)

var accountNumberSpace = big.NewInt(10_000_000)

// generateAccountNumber returns "888" followed by seven zero-padded random
// digits.
func generateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpace)
	if err != nil {
		return "", fmt.Errorf("generateAccountNumber: %w", err)
	}
	return fmt.Sprintf("%s%0*d", accountNumberPrefix, accountNumberDigits, n.Int64()), nil
}

// IsAccountNumber reports whether s has the shape of a generated number.
func IsAccountNumber(s string) bool {
	if len(s) != len(accountNumberPrefix)+accountNumberDigits || s[:len(accountNumberPrefix)] != accountNumberPrefix {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
