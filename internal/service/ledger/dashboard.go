package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// DashboardRecentLimit is how many of the newest records a dashboard shows.
const DashboardRecentLimit = 5

// Dashboard summarizes everything a user holds.
type Dashboard struct {
	TotalBalance decimal.Decimal
	// PrimaryAccount is the oldest open CHECKING account, else the oldest
	// open account. Empty when the user has none.
	PrimaryAccount string
	OpenAccounts   int
	Recent         []domain.Transaction
	UserStatus     domain.UserStatus
}

func (s *Service) Dashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	user, err := s.requireActiveUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}
	accounts, err := s.store.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}

	d := &Dashboard{TotalBalance: decimal.Zero, UserStatus: user.Status}
	numbers := make([]string, 0, len(accounts))
	var firstOpen string
	for _, a := range accounts {
		numbers = append(numbers, a.AccountNumber)
		if a.Status == domain.AccountStatusClosed {
			continue
		}
		d.OpenAccounts++
		d.TotalBalance = d.TotalBalance.Add(a.Balance)
		if firstOpen == "" {
			firstOpen = a.AccountNumber
		}
		if d.PrimaryAccount == "" && a.AccountType == domain.AccountTypeChecking {
			d.PrimaryAccount = a.AccountNumber
		}
	}
	if d.PrimaryAccount == "" {
		d.PrimaryAccount = firstOpen
	}

	d.Recent, err = s.store.HistoryForAccounts(ctx, numbers, DashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}
	return d, nil
}
