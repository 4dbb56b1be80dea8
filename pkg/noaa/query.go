package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	NOAA_URL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	TIME_FMT = "20060102"
)

// ErrNoData is returned when the API answers without a data key, which
// is how it reports an empty record for the station and day.
var ErrNoData = errors.New("noaa: no data for station and date")

// Client queries the CO-OPS datagetter. The zero value is not usable;
// see NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: NOAA_URL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetObservations fetches one day of water level samples. Samples with
// an empty water level are dropped. Returns ErrNoData when the API has
// no record at all.
func (c *Client) GetObservations(ctx context.Context, q *ObservationQuery) (Observations, error) {
	var result NOAAResult

	// Build request URL first
	addr, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}

	addr.RawQuery = q.build().Encode()

	// Make the request to NOAA
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("noaa: API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if result.Data == nil {
		return nil, ErrNoData
	}

	// Drop the gap samples.
	obs := make(Observations, 0, len(*result.Data))
	for _, o := range *result.Data {
		if o.Height.Valid() {
			obs = append(obs, o)
		}
	}
	return obs, nil
}

func (q *ObservationQuery) build() url.Values {
	vals := make(url.Values)
	vals.Add("begin_date", q.Date.Format(TIME_FMT))
	vals.Add("end_date", q.Date.Format(TIME_FMT))
	vals.Add("station", q.Station)
	vals.Add("product", "water_level")
	vals.Add("datum", "MLLW")
	vals.Add("time_zone", "gmt")
	vals.Add("units", "metric")
	vals.Add("format", "json")
	return vals
}
