package service_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/mocks"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/storage"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/testhelpers"
)

// Kelvingrove Street, Glasgow.
var testCoords = &models.Coordinates{Latitude: 55.865012, Longitude: -4.284227}

type testEnv struct {
	db       *gorm.DB
	store    *store.Context
	geocoder *mocks.MockGeocoder
	uploads  *storage.LocalStore
	images   *service.ImageService
	items    *service.DonationItemService
	requests *service.RequestService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testhelpers.NewTestDB(t)
	s := store.New(db)
	log := logging.Discard()

	geocoder := new(mocks.MockGeocoder)
	geocoder.On("Geocode", mock.Anything, mock.Anything).Return(testCoords, nil).Maybe()

	uploads, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	images := service.NewImageService(uploads, log)

	return &testEnv{
		db:       db,
		store:    s,
		geocoder: geocoder,
		uploads:  uploads,
		images:   images,
		items:    service.NewDonationItemService(s, images, geocoder, service.UTCClock, log),
		requests: service.NewRequestService(s, geocoder, log),
	}
}

func (e *testEnv) item(t *testing.T, id any) *models.DonationItem {
	t.Helper()
	var item models.DonationItem
	require.NoError(t, e.db.First(&item, "id = ?", id).Error)
	return &item
}

func (e *testEnv) request(t *testing.T, id any) *models.Request {
	t.Helper()
	var req models.Request
	require.NoError(t, e.db.First(&req, "id = ?", id).Error)
	return &req
}

func (e *testEnv) user(t *testing.T, id any) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, e.db.First(&u, "id = ?", id).Error)
	return &u
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, G: 30, B: 30, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
