package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrAccountNotFound         = fmt.Errorf("account %w", ErrNotFound)
	ErrUserNotFound            = fmt.Errorf("user %w", ErrNotFound)
	ErrForbidden               = errors.New("caller does not own this account")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrBalanceLimitExceeded    = errors.New("balance would exceed the maximum the ledger holds")
	ErrAccountNotActive        = errors.New("account is not active")
	ErrOwnerNotActive          = errors.New("account owner is not active")
	ErrDuplicateAccountType    = errors.New("owner already holds an account of this type")
	ErrNonZeroBalance          = errors.New("balance must be zero before closing")
	ErrSameAccount             = errors.New("cannot transfer to the same account")
	ErrInvalidAccountType      = errors.New("invalid account type")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrIDGenerationExhausted   = errors.New("could not generate a unique account number")
	ErrAccountNumberTaken      = errors.New("account number already in use")
	ErrStoreUnavailable        = errors.New("ledger store unavailable")
	ErrVersionConflict         = errors.New("optimistic lock conflict")
	ErrInvalidRequest          = errors.New("invalid request")
	ErrEmailTaken              = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
)
