package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/testhelpers"
)

var kelvingrove = models.Address{Street: "3 Kelvingrove St", City: "Glasgow", Postcode: "G3 7RX"}

func TestTomTomGeocode(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{"results":[{"position":{"lat":55.865012,"lon":-4.284227}},{"position":{"lat":1,"lon":1}}]}`))
	}))
	defer srv.Close()

	c, err := NewTomTomClient("abc").WithBaseURL(srv.URL).Geocode(context.Background(), kelvingrove)
	require.NoError(t, err)
	assert.Equal(t, &models.Coordinates{Latitude: 55.865012, Longitude: -4.284227}, c)
	assert.Equal(t, "/3 Kelvingrove St, Glasgow, G3 7RX.json", gotPath)
	assert.Equal(t, "abc", gotKey)
}

func TestTomTomGeocodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"no results", http.StatusOK, `{"results":[]}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewTomTomClient("k").WithBaseURL(srv.URL).Geocode(context.Background(), kelvingrove)
			assert.Error(t, err)
		})
	}
}

func TestOfflineGeocoder(t *testing.T) {
	c, err := Offline{}.Geocode(context.Background(), kelvingrove)
	assert.NoError(t, err)
	assert.Nil(t, c)
}

type countingGeocoder struct{ calls int }

func (g *countingGeocoder) Geocode(context.Context, models.Address) (*models.Coordinates, error) {
	g.calls++
	return &models.Coordinates{Latitude: 1.5, Longitude: 2.5}, nil
}

func TestCachedGeocoder(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	next := &countingGeocoder{}
	g := NewCachedGeocoder(next, client, time.Minute, logging.Discard())
	ctx := context.Background()

	first, err := g.Geocode(ctx, kelvingrove)
	require.NoError(t, err)
	second, err := g.Geocode(ctx, models.Address{Street: "3 KELVINGROVE ST", City: "Glasgow", Postcode: "G3 7RX"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
}
