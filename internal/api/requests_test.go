package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/testhelpers"
)

func requestValues(item *models.DonationItem) url.Values {
	return url.Values{
		"donationItemId":    {item.ID.String()},
		"deliveryMethod":    {"COLLECT"},
		"address[street]":   {"22 Lilybank Rd"},
		"address[city]":     {"Port Glasgow"},
		"address[postcode]": {"PA14 5AN"},
		"additionalNotes":   {"Weekday mornings are best"},
	}
}

func TestNewRequestPrefillsAddress(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	item := testhelpers.CreateItem(t, env.db, donor)

	w := env.get("/requests/new/"+item.ID.String(), env.login(t, pantry))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, item.ID.String())
	assert.Contains(t, body, pantry.Address.Street)
}

func TestCreateRequest(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	item := testhelpers.CreateItem(t, env.db, donor)
	cookie := env.login(t, pantry)

	form := requestValues(item)
	form.Set("dateTimeRange[start]", "2030-01-02T09:00")
	form.Set("dateTimeRange[end]", "2030-01-02T11:30")
	w := env.post("/requests", form, cookie)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/requests", w.Header().Get("Location"))

	reqs, err := env.store.Requests.FindByUser(context.Background(), pantry.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, "Weekday mornings are best", req.AdditionalNotes)
	require.True(t, req.Window.IsSet())
	assert.Equal(t, 9, req.Window.Start.UTC().Hour())

	w = env.get("/requests", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), item.Name)

	// One request per user and item.
	w = env.post("/requests", requestValues(item), cookie)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "A request already exists for this donation item")
}

func TestCreateRequestWindowMustBeOneDay(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	item := testhelpers.CreateItem(t, env.db, donor)

	form := requestValues(item)
	form.Set("dateTimeRange[start]", "2030-01-02T09:00")
	form.Set("dateTimeRange[end]", "2030-01-03T09:00")
	w := env.post("/requests", form, env.login(t, pantry))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Start and end dates must be on the same day")
}

func TestAdminCannotReachRequests(t *testing.T) {
	env := newTestEnv(t)
	admin := testhelpers.CreateUser(t, env.db, models.RoleAdmin)

	w := env.get("/requests", env.login(t, admin))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/unauthorized", w.Header().Get("Location"))
}

func TestCancelRequest(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	item := testhelpers.CreateItem(t, env.db, donor)
	req := testhelpers.CreateRequest(t, env.db, pantry, item, models.RequestPending)
	cookie := env.login(t, pantry)

	w := env.get(fmt.Sprintf("/requests/%s/cancel", req.ID), cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.post("/requests/"+req.ID.String(), url.Values{"_method": {"DELETE"}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)

	var count int64
	env.db.Model(&models.Request{}).Where("id = ?", req.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCancelAcceptedRequestIsConflict(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	item := testhelpers.CreateItem(t, env.db, donor)
	req := testhelpers.CreateRequest(t, env.db, pantry, item, models.RequestAccepted)

	w := env.post("/requests/"+req.ID.String(), url.Values{"_method": {"DELETE"}}, env.login(t, pantry))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.RequestAccepted, env.request(t, req.ID).Status)
}

func TestCompleteRequestRewardsDonor(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	warehouse := testhelpers.CreateUser(t, env.db, models.RoleWarehouse)
	item := testhelpers.CreateItem(t, env.db, donor, func(d *models.DonationItem) { d.Status = models.DonationClaimed })
	req := testhelpers.CreateRequest(t, env.db, pantry, item, models.RequestAccepted)
	sibling := testhelpers.CreateRequest(t, env.db, warehouse, item, models.RequestPending)
	cookie := env.login(t, pantry)

	w := env.get("/requests/"+req.ID.String(), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), donor.Email)

	w = env.post(fmt.Sprintf("/requests/%s/complete", req.ID), url.Values{}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/requests", w.Header().Get("Location"))

	assert.Equal(t, models.RequestCompleted, env.request(t, req.ID).Status)
	assert.Equal(t, models.RequestRejected, env.request(t, sibling.ID).Status)
	assert.Equal(t, models.DonationCompleted, env.item(t, item.ID).Status)
	assert.Equal(t, service.DonorReward, env.user(t, donor.ID).Score)
}

func TestCompleteSomeoneElsesRequestIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	other := testhelpers.CreateUser(t, env.db, models.RolePantry)
	item := testhelpers.CreateItem(t, env.db, donor, func(d *models.DonationItem) { d.Status = models.DonationClaimed })
	req := testhelpers.CreateRequest(t, env.db, pantry, item, models.RequestAccepted)

	w := env.post(fmt.Sprintf("/requests/%s/complete", req.ID), url.Values{}, env.login(t, other))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.RequestAccepted, env.request(t, req.ID).Status)
	assert.Zero(t, env.user(t, donor.ID).Score)
}

func TestCompletePendingRequestIsConflict(t *testing.T) {
	env := newTestEnv(t)
	donor := testhelpers.CreateUser(t, env.db, models.RoleDonator)
	pantry := testhelpers.CreateUser(t, env.db, models.RolePantry)
	item := testhelpers.CreateItem(t, env.db, donor)
	req := testhelpers.CreateRequest(t, env.db, pantry, item, models.RequestPending)

	w := env.post(fmt.Sprintf("/requests/%s/complete", req.ID), url.Values{}, env.login(t, pantry))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.DonationAvailable, env.item(t, item.ID).Status)
}
