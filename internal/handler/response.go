package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// domainErrors is checked in order; the first match wins. Store failures
// come first since a failed compensation joins them with the leg's error.
var domainErrors = []struct {
	err    error
	appErr *AppError
}{
	{domain.ErrStoreUnavailable, ErrStoreUnavailable},
	{domain.ErrAccountNotFound, ErrAccountNotFound},
	{domain.ErrUserNotFound, ErrUserNotFound},
	{domain.ErrNotFound, ErrResourceNotFound},
	{domain.ErrForbidden, ErrForbidden},
	{domain.ErrOwnerNotActive, ErrOwnerNotActive},
	{domain.ErrInsufficientFunds, ErrInsufficientFunds},
	{domain.ErrBalanceLimitExceeded, ErrBalanceLimit},
	{domain.ErrAccountNotActive, ErrAccountNotActive},
	{domain.ErrNonZeroBalance, ErrNonZeroBalance},
	{domain.ErrDuplicateAccountType, ErrDuplicateAccountType},
	{domain.ErrInvalidAmount, ErrInvalidAmount},
	{domain.ErrSameAccount, ErrSameAccount},
	{domain.ErrInvalidAccountType, ErrInvalidAccountType},
	{domain.ErrInvalidStatusTransition, ErrInvalidTransition},
	{domain.ErrIDGenerationExhausted, ErrNumbersExhausted},
	{domain.ErrEmailTaken, ErrEmailTaken},
	{domain.ErrVersionConflict, ErrVersionConflict},
	{domain.ErrInvalidCredentials, ErrInvalidCredentials},
	{domain.ErrInvalidRequest, ErrInvalidRequest},
}

func RespondDomainError(w http.ResponseWriter, err error) {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			RespondAppError(w, m.appErr, nil)
			return
		}
	}
	slog.Error("unhandled domain error", "error", err)
	RespondAppError(w, ErrInternalError, nil)
}
