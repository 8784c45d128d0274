package api

import (
	"drone-route-service/internal/api/handlers"
	"drone-route-service/internal/platform/metrics"
	"drone-route-service/internal/ports"
	"net/http"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// TripSettings are the server-wide limits applied to every trip request.
type TripSettings struct {
	MaxStops       int
	SearchTimeout  time.Duration
	ParallelSearch bool
	CacheTTL       time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// cache may be nil.
func NewRouter(repo ports.StationRepository, cache ports.PlanCache, trips TripSettings) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	healthHandler := &handlers.HealthHandler{Repo: repo}
	stationHandler := &handlers.StationHandler{Repo: repo}
	tripHandler := &handlers.TripHandler{
		Repo:           repo,
		Cache:          cache,
		MaxStops:       trips.MaxStops,
		SearchTimeout:  trips.SearchTimeout,
		ParallelSearch: trips.ParallelSearch,
		CacheTTL:       trips.CacheTTL,
	}

	r.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)
	r.HandleFunc("/stations", stationHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/trips", tripHandler.Plan).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.Use(requestIDMiddleware, loggingMiddleware)

	return ghandlers.RecoveryHandler(
		ghandlers.RecoveryLogger(log.StandardLogger()),
		ghandlers.PrintRecoveryStack(true),
	)(r)
}
