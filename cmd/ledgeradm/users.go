package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/vault-ledger/internal/domain"
)

type userStatusStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error
}

type ownerAccountCloser interface {
	CloseOwnerAccounts(ctx context.Context, ownerID uuid.UUID) ([]string, error)
}

// closeUser freezes the user, closes every open account they own and only
// then marks them CLOSED. The user stays FROZEN while accounts close so no
// new movement can start. If an account refuses to close a user frozen here
// is made ACTIVE again.
func closeUser(ctx context.Context, users userStatusStore, accounts ownerAccountCloser, id uuid.UUID) ([]string, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("closeUser: %w", err)
	}
	froze := u.Status == domain.UserStatusActive
	if froze {
		if err := users.UpdateStatus(ctx, id, domain.UserStatusFrozen); err != nil {
			return nil, fmt.Errorf("closeUser: freeze: %w", err)
		}
	}

	closed, err := accounts.CloseOwnerAccounts(ctx, id)
	if err != nil {
		if froze {
			if rerr := users.UpdateStatus(ctx, id, domain.UserStatusActive); rerr != nil {
				err = errors.Join(err, fmt.Errorf("unfreeze: %w", rerr))
			}
		}
		return nil, fmt.Errorf("closeUser: %w", err)
	}

	if err := users.UpdateStatus(ctx, id, domain.UserStatusClosed); err != nil {
		return closed, fmt.Errorf("closeUser: %w", err)
	}
	return closed, nil
}
