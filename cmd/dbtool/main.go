package main

import (
	"context"
	"database/sql"
	"drone-route-service/internal/adapters/repositories"
	"drone-route-service/internal/config"
	"drone-route-service/internal/platform/db"
	"drone-route-service/internal/platform/obs"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}
	obs.Setup(config.Get("LOG_LEVEL", "info"), config.GetBool("LOG_JSON", false))

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(context.Background(), databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("STATIONS_FILE", "data/stations.yaml")
	if err := initAndSeed(context.Background(), conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info("Schema ready.")

	stations, err := repositories.LoadStationFile(seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.WithField("stations", len(stations)).Info("Seeding database...")
	if err := repositories.SeedStations(ctx, conn, stations); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info("Seeding complete.")

	return nil
}
