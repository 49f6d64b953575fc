package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/repository"
	"github.com/josh-kwaku/vault-ledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{
		ID:           uuid.New(),
		Email:        "carol@test.com",
		Name:         "Carol",
		PasswordHash: "hash",
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, u))

	t.Run("duplicate email", func(t *testing.T) {
		dup := *u
		dup.ID = uuid.New()
		err := repo.Create(ctx, &dup)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("lookups", func(t *testing.T) {
		byID, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)

		byEmail, err := repo.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		_, err = repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, u.ID, domain.UserStatusFrozen))
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.UserStatusFrozen, got.Status)

		assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), domain.UserStatusActive), domain.ErrUserNotFound)
	})
}

func TestIdempotencyRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewIdempotencyRepository(db)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "dave@test.com", "Dave")

	now := time.Now().UTC()
	entry := &repository.IdempotencyCacheEntry{
		Key:          "key-1",
		UserID:       user.ID,
		Route:        "/api/v1/transactions/deposit",
		RequestHash:  "abc",
		StatusCode:   201,
		ResponseBody: []byte(`{"success":true}`),
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Hour),
	}
	require.NoError(t, repo.Set(ctx, entry))

	got, err := repo.Get(ctx, "key-1", user.ID, entry.Route)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(got.ResponseBody))

	other, err := repo.Get(ctx, "key-1", user.ID, "/api/v1/transactions/withdraw")
	require.NoError(t, err)
	assert.Nil(t, other)

	// A second write under the same key keeps the first response.
	second := *entry
	second.StatusCode = 422
	require.NoError(t, repo.Set(ctx, &second))
	got, err = repo.Get(ctx, "key-1", user.ID, entry.Route)
	require.NoError(t, err)
	assert.Equal(t, 201, got.StatusCode)

	expired := *entry
	expired.Key = "key-2"
	expired.ExpiresAt = now.Add(-time.Minute)
	require.NoError(t, repo.Set(ctx, &expired))

	gone, err := repo.Get(ctx, "key-2", user.ID, entry.Route)
	require.NoError(t, err)
	assert.Nil(t, gone)

	n, err := repo.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
