package main

import (
	"context"
	"database/sql"
	"drone-route-service/internal/adapters/cache"
	"drone-route-service/internal/adapters/repositories"
	"drone-route-service/internal/api"
	"drone-route-service/internal/platform/db"
	"drone-route-service/internal/platform/metrics"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or YAML stations, Redis plan cache)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	fs := flag.NewFlagSet("drone-route-server", flag.ExitOnError)
	var (
		port           = fs.String("port", "8080", "HTTP listen port")
		databaseURL    = fs.String("database-url", "", "Postgres URL of the station table")
		stationsFile   = fs.String("stations-file", "", "YAML station table, used when no database is set")
		redisURL       = fs.String("redis-url", "", "Redis URL for the plan cache; empty disables caching")
		planCacheTTL   = fs.Duration("plan-cache-ttl", time.Hour, "lifetime of cached plans")
		maxStops       = fs.Int("max-stops", 10, "largest accepted selection, depot excluded")
		searchTimeout  = fs.Duration("search-timeout", 30*time.Second, "route search deadline")
		parallelSearch = fs.Bool("parallel-search", false, "explore first-level branches concurrently")
		logLevel       = fs.String("log-level", "info", "logrus level")
		logJSON        = fs.Bool("log-json", false, "emit JSON logs")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix()); err != nil {
		log.Fatal(err)
	}

	obs.Setup(*logLevel, *logJSON)
	metrics.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, conn, err := stationRepository(ctx, *databaseURL, *stationsFile)
	if err != nil {
		log.Fatal(err)
	}
	if conn != nil {
		defer conn.Close()
	}

	var planCache ports.PlanCache
	if strings.TrimSpace(*redisURL) != "" {
		client, err := cache.DialRedis(ctx, *redisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()
		planCache = cache.NewRedisPlanCache(client)
	}

	router := api.NewRouter(repo, planCache, api.TripSettings{
		MaxStops:       *maxStops,
		SearchTimeout:  *searchTimeout,
		ParallelSearch: *parallelSearch,
		CacheTTL:       *planCacheTTL,
	})

	// Write timeout leaves room for the search deadline.
	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      *searchTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithFields(log.Fields{"addr": srv.Addr, "cache": planCache != nil}).Info("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// stationRepository picks the coordinate store: Postgres, then a YAML file,
// then the built-in table.
func stationRepository(ctx context.Context, databaseURL, stationsFile string) (ports.StationRepository, *sql.DB, error) {
	if strings.TrimSpace(databaseURL) != "" {
		conn, err := db.Open(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("stations: postgres")
		return repositories.NewSQLStationRepository(conn), conn, nil
	}

	if strings.TrimSpace(stationsFile) != "" {
		if _, err := repositories.LoadStationFile(stationsFile); err != nil {
			return nil, nil, err
		}
		log.WithField("file", stationsFile).Info("stations: yaml")
		return repositories.NewYAMLStationRepository(stationsFile), nil, nil
	}

	log.Info("stations: built-in table")
	return repositories.NewMemoryStationRepository(repositories.DefaultStations()), nil, nil
}
