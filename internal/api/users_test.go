package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/testhelpers"
)

func userValues() url.Values {
	return url.Values{
		"firstname":         {"Morgan"},
		"lastname":          {"Reid"},
		"email":             {"morgan@example.com"},
		"mobile":            {"07111111111"},
		"role":              {"WAREHOUSE"},
		"password":          {"warehouse1"},
		"address[street]":   {"150 Albert Dr"},
		"address[city]":     {"Glasgow"},
		"address[postcode]": {"G41 2NG"},
	}
}

func TestUsersAreAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)

	w := env.get("/users", env.login(t, pantry))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/unauthorized", w.Header().Get("Location"))
}

func TestAdminCreatesAndEditsUser(t *testing.T) {
	env := newTestEnv(t)
	admin := testhelpers.CreateUser(t, env.db, models.RoleAdmin)
	cookie := env.login(t, admin)

	w := env.post("/users", userValues(), cookie)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/users", w.Header().Get("Location"))

	created, err := env.store.Users.FindByEmail(context.Background(), "morgan@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleWarehouse, created.Role)

	w = env.get("/users", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "morgan@example.com")

	form := userValues()
	form.Del("password")
	form.Set("_method", "PATCH")
	form.Set("role", "PANTRY")
	w = env.post("/users/"+created.ID.String(), form, cookie)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, models.RolePantry, env.user(t, created.ID).Role)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	admin := testhelpers.CreateUser(t, env.db, models.RoleAdmin)

	form := userValues()
	form.Set("role", "SUPERUSER")
	w := env.post("/users", form, env.login(t, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Role must be one of DONATOR, PANTRY, ADMIN, WAREHOUSE")
}

func TestAdminDeletesUser(t *testing.T) {
	env := newTestEnv(t)
	admin := testhelpers.CreateUser(t, env.db, models.RoleAdmin)
	victim := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	cookie := env.login(t, admin)

	w := env.get("/users/"+victim.ID.String()+"/delete", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.post("/users/"+victim.ID.String(), url.Values{"_method": {"DELETE"}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)

	_, err := env.store.Users.FindByID(context.Background(), victim.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	env := newTestEnv(t)
	admin := testhelpers.CreateUser(t, env.db, models.RoleAdmin)

	w := env.post("/users/"+admin.ID.String(), url.Values{"_method": {"DELETE"}}, env.login(t, admin))
	assert.Equal(t, http.StatusForbidden, w.Code)
	env.user(t, admin.ID)
}
