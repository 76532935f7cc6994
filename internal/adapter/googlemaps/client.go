package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/caretrials/trial-search-service/internal/domain"
)

// Client implements geocode.Provider using the Google Maps Geocoding API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Google Maps geocoding client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://maps.googleapis.com",
		logger:  logger,
	}
}

// Geocode converts a free-text address to coordinates. Any provider-side
// problem (transport error, non-200, non-OK status, empty results) is
// returned as an error; the caller decides how to degrade.
func (c *Client) Geocode(ctx context.Context, address string) (domain.GeocodeResult, error) {
	params := url.Values{
		"address": {address},
		"key":     {c.apiKey},
	}
	fullURL := c.baseURL + "/maps/api/geocode/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodeResult{}, fmt.Errorf("geocoding API error: status %d: %s", resp.StatusCode, body)
	}

	var geoResp response
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("decode response: %w", err)
	}

	if geoResp.Status != "OK" || len(geoResp.Results) == 0 {
		return domain.GeocodeResult{}, fmt.Errorf("geocoding failed: status %q", geoResp.Status)
	}

	r := geoResp.Results[0]
	return domain.GeocodeResult{
		Coordinate: domain.Coordinate{
			Lat: r.Geometry.Location.Lat,
			Lng: r.Geometry.Location.Lng,
		},
		FormattedAddress: r.FormattedAddress,
	}, nil
}

// Google Geocoding API response types.

type response struct {
	Status  string   `json:"status"`
	Results []result `json:"results"`
}

type result struct {
	Geometry         geometry `json:"geometry"`
	FormattedAddress string   `json:"formatted_address"`
}

type geometry struct {
	Location location `json:"location"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
