package repository

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
	pqNumericOverflow = "22003"

	constraintAccountsPK         = "accounts_pkey"
	constraintOwnerTypeOpen      = "accounts_owner_type_open_key"
	constraintBalanceNonNegative = "accounts_balance_check"
	constraintUsersEmail         = "users_email_key"
)

// constraintViolation reports the constraint a PostgreSQL error violated,
// if the error is a unique or check violation.
func constraintViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", false
	}
	switch string(pqErr.Code) {
	case pqUniqueViolation, pqCheckViolation:
		return pqErr.Constraint, true
	}
	return "", false
}

// numericOverflow reports whether PostgreSQL rejected a value too large for
// its NUMERIC column. The request can never succeed, so it is not a store
// failure.
func numericOverflow(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqNumericOverflow
}
