package repositories

import (
	"context"
	"database/sql"
	"drone-route-service/internal/domain"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		station_id INTEGER PRIMARY KEY CHECK (station_id >= 0),
		name TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL
	);
	`

	statements := []string{
		createStationsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the stations table, replacing rows with the same id.
func SeedStations(ctx context.Context, db *sql.DB, stations []domain.Station) error {
	if db == nil {
		return errors.New("seed stations: DB is nil")
	}

	if _, err := domain.NewStationTable(stations); err != nil {
		return fmt.Errorf("seed stations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO stations (
		station_id,
		name,
		x,
		y
	)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (station_id) DO UPDATE
	SET name = EXCLUDED.name,
		x = EXCLUDED.x,
		y = EXCLUDED.y;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed stations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stations {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Pos.X, s.Pos.Y); err != nil {
			return fmt.Errorf("seed stations: insert station_id=%d: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}
