package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/testhelpers"
)

func TestContacts(t *testing.T) {
	contacts := service.NewContactService(store.New(testhelpers.NewTestDB(t)))
	ctx := context.Background()

	c, err := contacts.Create(ctx, service.ContactInput{Name: " Sam ", Email: "SAM@example.com", Message: "Hello there"})
	require.NoError(t, err)
	assert.Equal(t, "Sam", c.Name)
	assert.Equal(t, "sam@example.com", c.Email)
	assert.False(t, c.SentAt.IsZero())

	got, err := contacts.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", got.Message)

	list, err := contacts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = contacts.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
