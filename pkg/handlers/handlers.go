// Package handlers exposes the core as a JSON API for the web
// presentation layer. Every response is renderable: upstream failures
// come back as labeled empty results or a user-facing message, never a
// bare stack trace.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/wetide/wetide/pkg/data"
	"github.com/wetide/wetide/pkg/metrics"
	"github.com/wetide/wetide/pkg/moon"
	"github.com/wetide/wetide/pkg/stations"
	"github.com/wetide/wetide/pkg/sunset"
	"github.com/wetide/wetide/pkg/tides"
	"github.com/wetide/wetide/pkg/visualize"
)

const (
	sessionName    = "wetide"
	sessionProfile = "profile"

	dateFormat = "2006-01-02"
)

// Server holds the dependencies of the API surface.
type Server struct {
	feed     *tides.Feed
	graph    *data.Graph
	weather  WeatherProvider
	geocoder GeocodeProvider
	store    sessions.Store
	validate *validator.Validate
}

// WeatherProvider is the pass-through weather lookup.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (json.RawMessage, error)
}

// GeocodeProvider resolves addresses to coordinates.
type GeocodeProvider interface {
	Lookup(ctx context.Context, address string) (lat, lon float64, err error)
}

func New(feed *tides.Feed, graph *data.Graph, w WeatherProvider, g GeocodeProvider, store sessions.Store) *Server {
	return &Server{
		feed:     feed,
		graph:    graph,
		weather:  w,
		geocoder: g,
		store:    store,
		validate: validator.New(),
	}
}

// Register mounts every API route on the router.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/api/v1/tides", s.serveTides).Methods("GET")
	r.HandleFunc("/api/v1/tides/chart", s.serveTideChart).Methods("GET")
	r.HandleFunc("/api/v1/stations", s.serveStations).Methods("GET")
	r.HandleFunc("/api/v1/stations/nearest", s.serveNearestStation).Methods("GET")
	r.HandleFunc("/api/v1/moon", s.serveMoonPhase).Methods("GET")
	r.HandleFunc("/api/v1/weather", s.serveWeather).Methods("GET")
	r.HandleFunc("/api/v1/geocode", s.serveGeocode).Methods("GET")

	r.HandleFunc("/api/v1/session", s.serveSetProfile).Methods("POST")
	r.HandleFunc("/api/v1/friends", s.serveAddFriend).Methods("POST")
	r.HandleFunc("/api/v1/friends", s.serveRemoveFriend).Methods("DELETE")
	r.HandleFunc("/api/v1/friends", s.serveFriends).Methods("GET")
	r.HandleFunc("/api/v1/friends/suggestions", s.serveSuggestions).Methods("GET")
	r.HandleFunc("/api/v1/feed", s.serveNewsFeed).Methods("GET")
	r.HandleFunc("/api/v1/status", s.serveStatusMessages).Methods("GET")
	r.HandleFunc("/api/v1/sessions", s.serveSurfSessions).Methods("GET")
	r.HandleFunc("/api/v1/spots", s.serveSurfSpots).Methods("GET")
}

type tideParams struct {
	Station string `validate:"required,numeric,len=7"`
	Date    string `validate:"omitempty,datetime=2006-01-02"`
}

func (s *Server) serveTides(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	params := tideParams{
		Station: r.FormValue("station"),
		Date:    r.FormValue("date"),
	}
	if err := s.validate.Struct(&params); err != nil {
		writeUserError(w, "station must be a 7-digit NOAA id and date must be YYYY-MM-DD")
		return
	}

	date := s.feed.Today()
	if params.Date != "" {
		date, _ = time.Parse(dateFormat, params.Date)
	}

	result := s.feed.GetTideSeries(r.Context(), params.Station, date)
	metrics.ObserveUpstreamRequest("noaa", outcomeFor(result.Label))

	// Frame the daylight hours when the station is in the catalog.
	if st, ok := stations.ByID(params.Station); ok {
		result.SunEvents = sunset.GetSunEvents(
			time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			24*time.Hour,
			sunset.At(st.Lat, st.Lon, time.UTC))
	}

	writeJSON(w, result)
}

func (s *Server) serveTideChart(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	params := tideParams{
		Station: r.FormValue("station"),
		Date:    r.FormValue("date"),
	}
	if err := s.validate.Struct(&params); err != nil {
		writeUserError(w, "station must be a 7-digit NOAA id and date must be YYYY-MM-DD")
		return
	}

	st, ok := stations.ByID(params.Station)
	if !ok {
		writeUserError(w, "unknown station")
		return
	}

	date := s.feed.Today()
	if params.Date != "" {
		date, _ = time.Parse(dateFormat, params.Date)
	}

	result := s.feed.GetTideSeries(r.Context(), params.Station, date)
	metrics.ObserveUpstreamRequest("noaa", outcomeFor(result.Label))
	if len(result.Observations) < 2 {
		writeUserError(w, "no tide data to chart")
		return
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	events := sunset.GetSunEvents(midnight, 24*time.Hour, sunset.At(st.Lat, st.Lon, time.UTC))

	img := visualize.NewTidal(result.Observations, events)
	img.SetDate(result.Observations[0].T())

	w.Header().Add("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := img.Encode(w); err != nil {
		log.Printf("Failed to encode tide chart: %v", err)
	}
}

func (s *Server) serveStations(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)
	writeJSON(w, stations.All())
}

type coordParams struct {
	Lat float64 `validate:"min=-90,max=90"`
	Lon float64 `validate:"min=-180,max=180"`
}

func coordsFromRequest(r *http.Request) (coordParams, error) {
	lat, err := strconv.ParseFloat(r.FormValue("lat"), 64)
	if err != nil {
		return coordParams{}, err
	}
	lon, err := strconv.ParseFloat(r.FormValue("lon"), 64)
	if err != nil {
		return coordParams{}, err
	}
	return coordParams{Lat: lat, Lon: lon}, nil
}

func (s *Server) serveNearestStation(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	coords, err := coordsFromRequest(r)
	if err == nil {
		err = s.validate.Struct(&coords)
	}
	if err != nil {
		writeUserError(w, "lat and lon must be decimal degrees")
		return
	}

	nearest := stations.Nearest(coords.Lat, coords.Lon)
	writeJSON(w, struct {
		stations.Station
		DistanceKm float64 `json:"distance_km"`
	}{
		Station:    nearest,
		DistanceKm: stations.Haversine(coords.Lat, coords.Lon, nearest.Lat, nearest.Lon),
	})
}

func (s *Server) serveMoonPhase(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	at := time.Now().UTC()
	if v := r.FormValue("at"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeUserError(w, "at must be an RFC 3339 timestamp")
			return
		}
		at = parsed
	}

	writeJSON(w, moon.PhaseAt(at))
}

func (s *Server) serveWeather(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	coords, err := coordsFromRequest(r)
	if err == nil {
		err = s.validate.Struct(&coords)
	}
	if err != nil {
		writeUserError(w, "lat and lon must be decimal degrees")
		return
	}

	payload, err := s.weather.Current(r.Context(), coords.Lat, coords.Lon)
	if err != nil {
		metrics.ObserveUpstreamRequest("weather", "error")
		log.Printf("Failed to fetch weather: %v", err)
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"label": "Error"})
		return
	}
	metrics.ObserveUpstreamRequest("weather", "success")

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (s *Server) serveGeocode(w http.ResponseWriter, r *http.Request) {
	log.Printf("%s %s", r.Method, r.URL)

	address := r.FormValue("address")
	if address == "" {
		writeUserError(w, "address is required")
		return
	}

	lat, lon, err := s.geocoder.Lookup(r.Context(), address)
	if err != nil {
		metrics.ObserveUpstreamRequest("geocode", "error")
		writeUserError(w, "could not find that address")
		return
	}
	metrics.ObserveUpstreamRequest("geocode", "success")

	writeJSON(w, map[string]float64{"lat": lat, "lon": lon})
}

func outcomeFor(label string) string {
	switch label {
	case tides.LabelError:
		return "error"
	case tides.LabelNoData:
		return "no_data"
	default:
		return "success"
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON result: %+v", err)
	}
}

func writeUserError(w http.ResponseWriter, msg string) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
