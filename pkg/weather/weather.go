// Package weather fetches current conditions by coordinate. The
// provider payload is passed through to the presentation layer
// unmodified, so the client decodes nothing beyond transport framing.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

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

// Current returns the provider's raw JSON payload for the coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	vals := make(url.Values)
	vals.Add("lat", fmt.Sprintf("%f", lat))
	vals.Add("lon", fmt.Sprintf("%f", lon))
	vals.Add("appid", c.APIKey)
	vals.Add("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+vals.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather API status %d: %s", resp.StatusCode, body)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("weather API returned invalid JSON")
	}
	return json.RawMessage(raw), nil
}
