package api

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/middleware"
	"github.com/foodshare/foodshare/internal/mocks"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/storage"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/testhelpers"
	"github.com/foodshare/foodshare/internal/views"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Kelvingrove Street, Glasgow.
var testCoords = &models.Coordinates{Latitude: 55.865012, Longitude: -4.284227}

type testEnv struct {
	db       *gorm.DB
	store    *store.Context
	sessions *service.SessionService
	handler  http.Handler
	healthy  error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, service.UTCClock)
}

// newTestEnvAt builds the site with item dates checked against clock.
func newTestEnvAt(t *testing.T, clock service.Clock) *testEnv {
	t.Helper()

	db := testhelpers.NewTestDB(t)
	s := store.New(db)
	log := logging.Discard()

	geocoder := new(mocks.MockGeocoder)
	geocoder.On("Geocode", mock.Anything, mock.Anything).Return(testCoords, nil).Maybe()

	uploads, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	images := service.NewImageService(uploads, log)

	env := &testEnv{db: db, store: s}
	env.sessions = service.NewSessionService(
		service.NewDBSessions(s.Sessions, service.UTCClock), s.Users, "test-secret", time.Hour, service.UTCClock)

	items := service.NewDonationItemService(s, images, geocoder, clock, log)
	svc := Services{
		Auth:          service.NewAuthService(s, 4, log),
		Sessions:      env.sessions,
		Users:         service.NewUserService(s, geocoder, 4, log),
		DonationItems: items,
		Requests:      service.NewRequestService(s, geocoder, log),
		Contacts:      service.NewContactService(s),
		Health:        func(context.Context) error { return env.healthy },
	}

	renderer, err := views.New(nil)
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = renderer
	engine.Use(middleware.LoadSession(env.sessions, log))
	engine.Use(middleware.Authorize(middleware.DefaultPolicies))
	RegisterRoutes(&engine.RouterGroup, svc, Options{CORSOrigins: []string{"http://localhost:3000"}}, log)

	env.handler = middleware.MethodOverride(engine)
	return env
}

// login returns a session cookie for user.
func (e *testEnv) login(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, err := e.sessions.Issue(context.Background(), user)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func (e *testEnv) serve(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return e.serve(httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

// post submits an urlencoded form, the way the site's HTML forms do.
func (e *testEnv) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.serve(req, cookie)
}

// postMultipart submits form with an optional image file.
func (e *testEnv) postMultipart(t *testing.T, path string, form url.Values, image []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range form {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.serve(req, cookie)
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

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	img.Set(3, 3, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var errDown = errors.New("database unreachable")
