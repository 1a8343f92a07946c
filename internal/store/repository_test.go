package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/testhelpers"
)

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository[models.Contact](testhelpers.NewTestDB(t))

	c := &models.Contact{Name: "Ada", Email: "ada@example.com", Message: "hello"}
	require.NoError(t, repo.Insert(ctx, c))
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.SentAt.IsZero())

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Message)

	updated, err := repo.Update(ctx, c.ID, map[string]any{"message": "goodbye"})
	require.NoError(t, err)
	assert.Equal(t, "goodbye", updated.Message)
	assert.Equal(t, "Ada", updated.Name)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	removed, err := repo.Remove(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, removed.ID)

	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepositoryMissingDocument(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository[models.User](testhelpers.NewTestDB(t))

	_, err := repo.Update(ctx, uuid.New(), map[string]any{"score": 1})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.Remove(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDuplicateEmailIsRejected(t *testing.T) {
	ctx := context.Background()
	s := store.New(testhelpers.NewTestDB(t))

	require.NoError(t, s.Users.Insert(ctx, &models.User{Email: "a@example.com", Role: models.RoleDonator}))
	err := s.Users.Insert(ctx, &models.User{Email: "a@example.com", Role: models.RoleDonator})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewTestDB(t)
	s := store.New(db)
	donor := testhelpers.CreateUser(t, db, models.RoleDonator)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *store.Context) error {
		if err := tx.Users.IncrementScore(ctx, donor.ID, 10); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Users.FindByID(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Score)
}
