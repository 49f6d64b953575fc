package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}
	ErrRateLimited        = &AppError{http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down"}

	ErrAccountNotFound      = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrUserNotFound         = &AppError{http.StatusNotFound, "USER_NOT_FOUND", "User not found"}
	ErrForbidden            = &AppError{http.StatusForbidden, "FORBIDDEN", "You do not own this account"}
	ErrOwnerNotActive       = &AppError{http.StatusForbidden, "USER_NOT_ACTIVE", "User is not active"}
	ErrInsufficientFunds    = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrAccountNotActive     = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_NOT_ACTIVE", "Account is not active"}
	ErrBalanceLimit         = &AppError{http.StatusUnprocessableEntity, "BALANCE_LIMIT_EXCEEDED", "Balance would exceed the maximum allowed"}
	ErrNonZeroBalance       = &AppError{http.StatusUnprocessableEntity, "NON_ZERO_BALANCE", "Account balance must be zero to close"}
	ErrDuplicateAccountType = &AppError{http.StatusConflict, "DUPLICATE_ACCOUNT_TYPE", "You already have an account of this type"}
	ErrInvalidAmount        = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be positive with at most two decimal places"}
	ErrSameAccount          = &AppError{http.StatusBadRequest, "SAME_ACCOUNT", "Cannot transfer to the same account"}
	ErrInvalidAccountType   = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_TYPE", "Account type must be SAVINGS or CHECKING"}
	ErrInvalidTransition    = &AppError{http.StatusBadRequest, "INVALID_STATUS_TRANSITION", "Status transition not allowed"}
	ErrEmailTaken           = &AppError{http.StatusConflict, "EMAIL_TAKEN", "Email already registered"}
	ErrVersionConflict      = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrStoreUnavailable     = &AppError{http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Ledger is temporarily unavailable, please retry"}
	ErrNumbersExhausted     = &AppError{http.StatusServiceUnavailable, "ACCOUNT_NUMBER_UNAVAILABLE", "Could not allocate an account number, please retry"}

	ErrIdempotencyConflict = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
