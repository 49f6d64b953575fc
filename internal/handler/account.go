package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/auth"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	// maxHistoryDepth caps how far back paging reaches, which keeps the
	// record offset well inside int range.
	maxHistoryDepth = 10_000
)

type accountService interface {
	OpenAccount(ctx context.Context, ownerID uuid.UUID, accountType domain.AccountType, initialDeposit decimal.Decimal) (*domain.Account, error)
	CloseAccount(ctx context.Context, number string, ownerID uuid.UUID) error
	GetAccount(ctx context.Context, number string, ownerID uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error)
	HistoryForOwner(ctx context.Context, number string, ownerID uuid.UUID, limit int) ([]domain.Transaction, error)
}

type AccountHandler struct {
	accounts    accountService
	maxPageSize int
}

func NewAccountHandler(accounts accountService, maxPageSize int) *AccountHandler {
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &AccountHandler{accounts: accounts, maxPageSize: maxPageSize}
}

type openAccountRequest struct {
	AccountType    string           `json:"account_type"`
	InitialDeposit *decimal.Decimal `json:"initial_deposit"`
}

func (r openAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountType == "" {
		errs = append(errs, FieldError{Field: "account_type", Message: "required"})
	} else if !domain.AccountType(r.AccountType).IsValid() {
		errs = append(errs, FieldError{Field: "account_type", Message: "must be SAVINGS or CHECKING"})
	}
	if r.InitialDeposit != nil && domain.ValidateInitialDeposit(*r.InitialDeposit) != nil {
		errs = append(errs, FieldError{Field: "initial_deposit", Message: "must be zero or positive with at most two decimal places"})
	}
	return errs
}

func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
	}
	return id, ok
}

func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	initial := decimal.Zero
	if req.InitialDeposit != nil {
		initial = *req.InitialDeposit
	}

	acct, err := h.accounts.OpenAccount(r.Context(), userID, domain.AccountType(req.AccountType), initial)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(acct))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, 0, len(accounts))
	for i := range accounts {
		dtos = append(dtos, toAccountDTO(&accounts[i]))
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	acct, err := h.accounts.GetAccount(r.Context(), r.PathValue("number"), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toAccountDTO(acct))
}

func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.CloseAccount(r.Context(), r.PathValue("number"), userID); err != nil {
		RespondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type historyResponse struct {
	Transactions []transactionDTO `json:"transactions"`
	Page         int              `json:"page"`
	Size         int              `json:"size"`
	HasMore      bool             `json:"has_more"`
}

// History serves one page of an account's records, newest first. Pages are
// zero-based.
func (h *AccountHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	page, size, fields := h.parsePage(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	// One extra record tells whether another page exists.
	recs, err := h.accounts.HistoryForOwner(r.Context(), r.PathValue("number"), userID, (page+1)*size+1)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	start := min(page*size, len(recs))
	end := min(start+size, len(recs))
	RespondSuccess(w, http.StatusOK, historyResponse{
		Transactions: toTransactionDTOs(recs[start:end]),
		Page:         page,
		Size:         size,
		HasMore:      len(recs) > end,
	})
}

func (h *AccountHandler) parsePage(r *http.Request) (int, int, []FieldError) {
	var fields []FieldError
	page, size := 0, min(defaultPageSize, h.maxPageSize)

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fields = append(fields, FieldError{Field: "page", Message: "must be a non-negative integer"})
		} else {
			page = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > h.maxPageSize {
			fields = append(fields, FieldError{Field: "size", Message: "must be between 1 and " + strconv.Itoa(h.maxPageSize)})
		} else {
			size = n
		}
	}
	if len(fields) == 0 && page > maxHistoryDepth/size {
		fields = append(fields, FieldError{Field: "page", Message: "must not reach past record " + strconv.Itoa(maxHistoryDepth)})
	}
	return page, size, fields
}
