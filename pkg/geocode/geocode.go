// Package geocode resolves a free-text address to coordinates so users
// can save surf spots without knowing latitudes.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type response struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Lookup returns the coordinates for an address. A non-OK provider
// status or an empty result set is a lookup failure the caller can show
// to the user as-is.
func (c *Client) Lookup(ctx context.Context, address string) (lat, lon float64, err error) {
	vals := make(url.Values)
	vals.Add("address", address)
	vals.Add("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+vals.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode API status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, 0, fmt.Errorf("geocode decode: %w", err)
	}

	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		return 0, 0, fmt.Errorf("no location found for %q", address)
	}

	loc := decoded.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
