package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wetide/wetide/pkg/data"
	"github.com/wetide/wetide/pkg/geocode"
	"github.com/wetide/wetide/pkg/handlers"
	"github.com/wetide/wetide/pkg/metrics"
	"github.com/wetide/wetide/pkg/noaa"
	"github.com/wetide/wetide/pkg/tides"
	"github.com/wetide/wetide/pkg/weather"
)

type Config struct {
	Port          string `default:"8080"`
	Prefix        string `default:"/"`
	SessionKey    string `split_words:"true" required:"true"`
	WeatherAPIKey string `split_words:"true"`
	GeocodeAPIKey string `split_words:"true"`
}

func main() {
	// A .env file is optional; real deployments set the environment.
	godotenv.Load()

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}

	db := data.PostgresFromEnvOrDie()

	server := handlers.New(
		tides.NewFeed(noaa.NewClient()),
		data.NewGraph(db),
		weather.NewClient(env.WeatherAPIKey),
		geocode.NewClient(env.GeocodeAPIKey),
		sessions.NewCookieStore([]byte(env.SessionKey)),
	)

	r := mux.NewRouter().StrictSlash(true)
	s := r.PathPrefix(env.Prefix).Subrouter()

	s.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL)
		fmt.Fprintf(w, "wetide\n")
	})
	s.Handle("/metrics", promhttp.Handler())
	server.Register(s)

	srv := &http.Server{
		Handler:      metrics.LatencyHandler(r),
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Printf("Listening and serving on %s%s", srv.Addr, env.Prefix)
	log.Fatal(srv.ListenAndServe())
}
