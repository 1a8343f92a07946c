package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/testhelpers"
)

func TestHomeAndAboutAreOpen(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.get("/", nil).Code)
	assert.Equal(t, http.StatusOK, env.get("/about", nil).Code)

	w := env.get("/contact", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/contacts/new", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	env.healthy = errDown
	w = env.get("/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestShopListsEligibleItems(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	testhelpers.CreateItem(t, env.db, donor, func(d *models.DonationItem) { d.Name = "Fresh kale" })
	testhelpers.CreateItem(t, env.db, donor, func(d *models.DonationItem) {
		d.Name = "Old yoghurt"
		d.Category = models.CategoryDairy
		d.DateInfo = models.DateInfo{Type: models.DateUseBy, Date: testhelpers.Today().AddDate(0, 0, -2)}
	})
	testhelpers.CreateItem(t, env.db, donor, func(d *models.DonationItem) {
		d.Name = "Claimed bread"
		d.Status = models.DonationClaimed
	})
	cookie := env.login(t, pantry)

	w := env.get("/shop", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Fresh kale")
	assert.NotContains(t, body, "Old yoghurt")
	assert.NotContains(t, body, "Claimed bread")

	w = env.get("/shop?category=DAIRY", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Fresh kale")

	w = env.get("/shop?searchTerm=KALE", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fresh kale")
}

func TestShopRejectsNegativeDays(t *testing.T) {
	env := newTestEnv(t)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)

	w := env.get("/shop?daysAfterBestBefore=-1", env.login(t, pantry))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Days past best before cannot be less than 0")
}

func TestShopIsForPantries(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)

	w := env.get("/shop", env.login(t, donor))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/unauthorized", w.Header().Get("Location"))
}

func TestShopItemShowsRequestLink(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	item := testhelpers.CreateItem(t, env.db, donor)

	w := env.get("/shop/"+item.ID.String(), env.login(t, pantry))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/requests/new/"+item.ID.String())
}

func TestContactForm(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.get("/contacts/new", nil).Code)

	w := env.post("/contacts", url.Values{
		"name":    {"Sam"},
		"email":   {"sam@example.com"},
		"message": {"Do you collect from Paisley?"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Message sent successfully.")

	contacts, err := env.store.Contacts.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	w = env.get("/contacts/"+contacts[0].ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Do you collect from Paisley?")

	w = env.post("/contacts", url.Values{"name": {"Sam"}, "email": {"sam"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Message is required")
}

func TestLocationEndpoint(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	item := testhelpers.CreateItem(t, env.db, donor)
	path := "/api/v1/donation-items/" + item.ID.String() + "/location"

	w := env.get(path, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.get(path, env.login(t, donor))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		City      string  `json:"city"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.InDelta(t, 55.871611, body.Latitude, 1e-6)
	assert.InDelta(t, -4.260784, body.Longitude, 1e-6)
	assert.Equal(t, "Glasgow", body.City)

	w = env.get("/api/v1/donation-items/"+uuid.NewString()+"/location", env.login(t, donor))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	env := newTestEnv(t)
	// The test engine has no NoRoute page, so only the status is checked.
	assert.Equal(t, http.StatusNotFound, env.get("/nowhere", nil).Code)
}
