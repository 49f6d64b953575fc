package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
)

type dashboardService interface {
	Dashboard(ctx context.Context, ownerID uuid.UUID) (*ledger.Dashboard, error)
}

type DashboardHandler struct {
	svc dashboardService
}

func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type dashboardResponse struct {
	TotalBalance       string           `json:"total_balance"`
	PrimaryAccount     *string          `json:"primary_account"`
	OpenAccounts       int              `json:"open_accounts"`
	RecentTransactions []transactionDTO `json:"recent_transactions"`
	UserStatus         string           `json:"user_status"`
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	d, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	resp := dashboardResponse{
		TotalBalance:       d.TotalBalance.StringFixed(domain.AmountScale),
		OpenAccounts:       d.OpenAccounts,
		RecentTransactions: toTransactionDTOs(d.Recent),
		UserStatus:         string(d.UserStatus),
	}
	if d.PrimaryAccount != "" {
		resp.PrimaryAccount = &d.PrimaryAccount
	}
	RespondSuccess(w, http.StatusOK, resp)
}
