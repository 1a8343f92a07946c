package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/mocks"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/testhelpers"
	"github.com/foodshare/foodshare/internal/views"
)

func registration() url.Values {
	return url.Values{
		"firstname": {"Jamie"},
		"lastname":  {"Doe"},
		"mobile":    {"07123456789"},
		"email":     {"Jamie@Example.com"},
		"password":  {"secret1"},
	}
}

func sessionCookie(w interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.post("/auth/register", registration(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User registered successfully")

	user, err := env.store.Users.FindByEmail(context.Background(), "jamie@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDonator, user.Role)
	assert.Zero(t, user.Score)

	w = env.post("/auth/login", url.Values{"email": {"jamie@example.com"}, "password": {"secret1"}}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	w = env.get("/auth/profile", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jamie@example.com")
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.post("/auth/register", registration(), nil).Code)
	w := env.post("/auth/register", registration(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	form := registration()
	form.Set("mobile", "0712")
	form.Set("email", "not-an-email")

	w := env.post("/auth/register", form, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Mobile must be at least 10 characters")
	assert.Contains(t, body, "Email must be a valid email address")
	assert.NotContains(t, body, "secret1")
}

func TestLoginWithWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, models.RoleDonator)

	w := env.post("/auth/login", url.Values{"email": {user.Email}, "password": {"wrong-password"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect username or password.")
	assert.Nil(t, sessionCookie(w))
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	cookie := env.login(t, user)

	w := env.get("/auth/logout", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	w = env.get("/donation-items", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func TestProfileRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/auth/profile", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func profileForm(u *models.User) url.Values {
	return url.Values{
		"_method":           {"PATCH"},
		"id":                {u.ID.String()},
		"firstname":         {"Robin"},
		"lastname":          {"Banks"},
		"email":             {u.Email},
		"mobile":            {"07000000000"},
		"address[street]":   {"3 Kelvingrove St"},
		"address[city]":     {"Glasgow"},
		"address[postcode]": {"G3 7RX"},
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, models.RolePantry)

	w := env.post("/auth/profile", profileForm(user), env.login(t, user))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Profile successfully updated!")

	updated := env.user(t, user.ID)
	assert.Equal(t, "Robin", updated.FirstName)
	assert.Equal(t, "G3 7RX", updated.Address.Postcode)
	assert.Equal(t, models.RolePantry, updated.Role)
}

func TestUpdateSomeoneElsesProfileIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, models.RolePantry)
	other := testhelpers.CreateUser(t, env.db, models.RoleDonator)

	w := env.post("/auth/profile", profileForm(other), env.login(t, user))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Test", env.user(t, other.ID).FirstName)
}

func TestGoogleRoutesDisabledWithoutConfig(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, env.get("/auth/google", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.get("/auth/google/callback?state=x&code=y", nil).Code)
}

func TestLoginWhenAuthBackendFails(t *testing.T) {
	auth := new(mocks.MockAuthService)
	auth.On("Authenticate", mock.Anything, "sam@example.com", "secret1").Return(nil, errDown)
	sessions := new(mocks.MockSessionService)

	renderer, err := views.New(nil)
	require.NoError(t, err)
	engine := gin.New()
	engine.HTMLRender = renderer
	NewAuthHandler(auth, sessions, nil, nil, nil, false, logging.Discard()).RegisterRoutes(&engine.RouterGroup)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(url.Values{"email": {"sam@example.com"}, "password": {"secret1"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), genericError)
	assert.Nil(t, sessionCookie(w))
	auth.AssertExpectations(t)
	sessions.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}
