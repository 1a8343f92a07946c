package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/foodshare/foodshare/internal/models"
)

// ErrNoResults is returned when the geocoder cannot place an address.
var ErrNoResults = errors.New("unable to geocode address")

const defaultTomTomURL = "https://api.tomtom.com/search/2/geocode"

// TomTomClient resolves postal addresses with the TomTom Search API.
type TomTomClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewTomTomClient creates a geocoder using apiKey.
func NewTomTomClient(apiKey string) *TomTomClient {
	return &TomTomClient{
		apiKey:  apiKey,
		baseURL: defaultTomTomURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func (c *TomTomClient) WithBaseURL(u string) *TomTomClient {
	c.baseURL = u
	return c
}

type tomTomResponse struct {
	Results []struct {
		Position struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"position"`
	} `json:"results"`
}

// Geocode returns the position of the first result for addr.
func (c *TomTomClient) Geocode(ctx context.Context, addr models.Address) (*models.Coordinates, error) {
	endpoint := fmt.Sprintf("%s/%s.json?key=%s",
		c.baseURL, url.PathEscape(addr.String()), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body tomTomResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(body.Results) == 0 {
		return nil, ErrNoResults
	}

	pos := body.Results[0].Position
	return &models.Coordinates{Latitude: pos.Lat, Longitude: pos.Lon}, nil
}

// Offline is used when no geocoding key is configured. Addresses are stored
// without a position and distances to them read as 0.
type Offline struct{}

func (Offline) Geocode(context.Context, models.Address) (*models.Coordinates, error) {
	return nil, nil
}
