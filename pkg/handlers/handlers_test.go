package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wetide/wetide/pkg/data"
	"github.com/wetide/wetide/pkg/noaa"
	"github.com/wetide/wetide/pkg/stations"
	"github.com/wetide/wetide/pkg/tides"
)

var testToday = time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

type fakeTideProvider struct {
	obs noaa.Observations
	err error
}

func (f *fakeTideProvider) GetObservations(ctx context.Context, q *noaa.ObservationQuery) (noaa.Observations, error) {
	return f.obs, f.err
}

type fakeWeather struct {
	payload json.RawMessage
	err     error
}

func (f *fakeWeather) Current(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	return f.payload, f.err
}

type fakeGeocoder struct {
	lat, lon float64
	err      error
}

func (f *fakeGeocoder) Lookup(ctx context.Context, address string) (float64, float64, error) {
	return f.lat, f.lon, f.err
}

func newTestServer(t *testing.T, tp tides.Provider, w WeatherProvider, g GeocodeProvider) (*mux.Router, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&data.Profile{}, &data.FriendLink{}, &data.SurfSpot{}, &data.SurfSession{}, &data.StatusMessage{}))

	feed := tides.NewFeedWithClock(tp, clockwork.NewFakeClockAt(testToday))
	srv := New(feed, data.NewGraph(db), w, g, sessions.NewCookieStore([]byte("test")))

	r := mux.NewRouter()
	srv.Register(r)
	return r, db
}

func get(r *mux.Router, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", url, nil))
	return rec
}

func TestServeTides(t *testing.T) {
	tp := &fakeTideProvider{obs: noaa.Observations{
		{Time: noaa.Time(testToday), Height: 0.8},
		{Time: noaa.Time(testToday.Add(time.Hour)), Height: 1.7},
	}}
	r, _ := newTestServer(t, tp, &fakeWeather{}, &fakeGeocoder{})

	rec := get(r, "/api/v1/tides?station=9414290&date=2024-06-01")
	require.Equal(t, http.StatusOK, rec.Code)

	var got tides.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, tides.LabelActual, got.Label)
	assert.Len(t, got.Observations, 2)
	assert.Len(t, got.SunEvents, 2) // station is in the catalog
	require.NotNil(t, got.Max)
	assert.EqualValues(t, 1.7, got.Max.Height)
}

func TestServeTidesDefaultDateUsesFeedClock(t *testing.T) {
	tp := &fakeTideProvider{obs: noaa.Observations{
		{Time: noaa.Time(testToday), Height: 0.8},
	}}
	r, _ := newTestServer(t, tp, &fakeWeather{}, &fakeGeocoder{})

	// No date parameter: the default must be the feed's today, not the
	// wall clock, so the series comes back unshifted and Actual.
	rec := get(r, "/api/v1/tides?station=9414290")
	require.Equal(t, http.StatusOK, rec.Code)

	var got tides.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, tides.LabelActual, got.Label)
	require.Len(t, got.Observations, 1)
	assert.True(t, got.Observations[0].T().Equal(testToday))
}

func TestServeStationList(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{})

	rec := get(r, "/api/v1/stations")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []stations.Station
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, len(stations.All()))
	assert.Contains(t, got, stations.Station{ID: "9414290", Name: "San Francisco, CA", Lat: 37.8063, Lon: -122.4659})
}

func TestServeTidesRejectsBadStation(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{})

	for _, url := range []string{
		"/api/v1/tides?station=notanid",
		"/api/v1/tides?station=123",
		"/api/v1/tides?station=9414290&date=June%201",
		"/api/v1/tides",
	} {
		rec := get(r, url)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestServeTidesUpstreamFailure(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{err: errors.New("boom")}, &fakeWeather{}, &fakeGeocoder{})

	rec := get(r, "/api/v1/tides?station=9414290&date=2024-06-01")
	require.Equal(t, http.StatusOK, rec.Code) // degraded, still renderable

	var got tides.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, tides.LabelError, got.Label)
	assert.Empty(t, got.Observations)
	assert.Nil(t, got.Max)
}

func TestServeNearestStation(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{})

	rec := get(r, "/api/v1/stations/nearest?lat=37.8063&lon=-122.4659")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		ID         string  `json:"id"`
		DistanceKm float64 `json:"distance_km"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "9414290", got.ID)
	assert.InDelta(t, 0, got.DistanceKm, 1e-6)
}

func TestServeNearestStationRejectsBadCoords(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{})

	for _, url := range []string{
		"/api/v1/stations/nearest",
		"/api/v1/stations/nearest?lat=91&lon=0",
		"/api/v1/stations/nearest?lat=somewhere&lon=0",
	} {
		rec := get(r, url)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestServeMoonPhase(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{})

	rec := get(r, "/api/v1/moon?at=2000-01-06T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "New Moon", got.Name)
}

func TestServeWeatherPassThrough(t *testing.T) {
	payload := `{"main":{"temp":15.2}}`
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{payload: json.RawMessage(payload)}, &fakeGeocoder{})

	rec := get(r, "/api/v1/weather?lat=36.95&lon=-122.02")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, payload, rec.Body.String())
}

func TestServeWeatherFailure(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{err: errors.New("down")}, &fakeGeocoder{})

	rec := get(r, "/api/v1/weather?lat=36.95&lon=-122.02")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error")
}

func TestServeGeocode(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{lat: 36.95, lon: -122.02})

	rec := get(r, "/api/v1/geocode?address=Pleasure+Point")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.InDelta(t, 36.95, got["lat"], 1e-9)
}

func TestFriendFlow(t *testing.T) {
	r, db := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{})

	ana := data.Profile{FirstName: "ana"}
	ben := data.Profile{FirstName: "ben"}
	require.NoError(t, db.Create(&ana).Error)
	require.NoError(t, db.Create(&ben).Error)

	post := func(url, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", url, strings.NewReader(body))
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/v1/friends", `{"profile_id": 1, "friend_id": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = get(r, "/api/v1/friends?profile=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var friends []data.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, "ana", friends[0].FirstName)

	// Removing from the other side tears the same link down.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/v1/friends", strings.NewReader(`{"profile_id": 2, "friend_id": 1}`))
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(r, "/api/v1/friends?profile=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &friends))
	assert.Empty(t, friends)
}

func TestSessionCarriesProfile(t *testing.T) {
	r, db := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{})
	require.NoError(t, db.Create(&data.Profile{FirstName: "ana"}).Error)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/session", strings.NewReader(`{"profile_id": 1}`))
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest("GET", "/api/v1/friends", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFriendEndpointsRequireProfile(t *testing.T) {
	r, _ := newTestServer(t, &fakeTideProvider{}, &fakeWeather{}, &fakeGeocoder{})

	rec := get(r, "/api/v1/friends")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
