package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
	"github.com/shopspring/decimal"
)

type transactionService interface {
	Deposit(ctx context.Context, number string, amount decimal.Decimal) (*domain.Transaction, error)
	Withdraw(ctx context.Context, number string, amount decimal.Decimal, ownerID uuid.UUID) (*domain.Transaction, error)
	Transfer(ctx context.Context, req ledger.TransferRequest) (*ledger.TransferResult, error)
}

type TransactionHandler struct {
	ledger transactionService
}

func NewTransactionHandler(svc transactionService) *TransactionHandler {
	return &TransactionHandler{ledger: svc}
}

type movementRequest struct {
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r movementRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountNumber == "" {
		errs = append(errs, FieldError{Field: "account_number", Message: "required"})
	}
	if domain.ValidateAmount(r.Amount) != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be positive with at most two decimal places"})
	}
	return errs
}

type transferRequest struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r transferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.FromAccount == "" {
		errs = append(errs, FieldError{Field: "from_account", Message: "required"})
	}
	if r.ToAccount == "" {
		errs = append(errs, FieldError{Field: "to_account", Message: "required"})
	}
	if domain.ValidateAmount(r.Amount) != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be positive with at most two decimal places"})
	}
	return errs
}

type transferResponse struct {
	Withdrawal transactionDTO `json:"withdrawal"`
	Deposit    transactionDTO `json:"deposit"`
	Transfer   transactionDTO `json:"transfer"`
}

func decodeMovement(w http.ResponseWriter, r *http.Request) (movementRequest, bool) {
	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return req, false
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return req, false
	}
	return req, true
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}
	req, ok := decodeMovement(w, r)
	if !ok {
		return
	}

	rec, err := h.ledger.Deposit(r.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toTransactionDTO(rec))
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	req, ok := decodeMovement(w, r)
	if !ok {
		return
	}

	rec, err := h.ledger.Withdraw(r.Context(), req.AccountNumber, req.Amount, userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toTransactionDTO(rec))
}

func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.ledger.Transfer(r.Context(), ledger.TransferRequest{
		From:    req.FromAccount,
		To:      req.ToAccount,
		Amount:  req.Amount,
		OwnerID: userID,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, transferResponse{
		Withdrawal: toTransactionDTO(res.Withdrawal),
		Deposit:    toTransactionDTO(res.Deposit),
		Transfer:   toTransactionDTO(res.Transfer),
	})
}
