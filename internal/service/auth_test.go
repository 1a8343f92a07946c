package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/testhelpers"
)

func newAuthService(t *testing.T) (*service.AuthService, *store.Context) {
	t.Helper()
	s := store.New(testhelpers.NewTestDB(t))
	return service.NewAuthService(s, bcrypt.MinCost, logging.Discard()), s
}

func TestRegisterCreatesDonator(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, service.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Mobile:    "0123456789",
		Email:     "  Ada@Example.com ",
		Password:  "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDonator, user.Role)
	assert.Equal(t, 0, user.Score)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = auth.Register(ctx, service.RegisterInput{Email: "ada@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestAuthenticate(t *testing.T) {
	auth, s := newAuthService(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.DB(), models.RolePantry)

	got, err := auth.Authenticate(ctx, user.Email, testhelpers.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = auth.Authenticate(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Authenticate(ctx, "nobody@example.com", testhelpers.TestPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginWithGoogle(t *testing.T) {
	auth, s := newAuthService(t)
	ctx := context.Background()

	profile := service.GoogleProfile{Subject: "123", Email: "Grace@Example.com", FirstName: "Grace", LastName: "Hopper"}
	first, err := auth.LoginWithGoogle(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDonator, first.Role)
	assert.Empty(t, first.PasswordHash)

	again, err := auth.LoginWithGoogle(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// Google-only accounts cannot use the password form.
	_, err = auth.Authenticate(ctx, "grace@example.com", "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	n, err := s.Users.Count(ctx, "email = ?", "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = auth.LoginWithGoogle(ctx, service.GoogleProfile{Subject: "456"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
