package repositories

import (
	"context"
	"database/sql"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/obs"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the StationRepository port.
type SQLStationRepository struct{ DB *sql.DB }

func NewSQLStationRepository(db *sql.DB) *SQLStationRepository {
	return &SQLStationRepository{DB: db}
}

// Return all stations stored in the database.
func (s *SQLStationRepository) ListStations(ctx context.Context) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "stations.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql station repository: DB is nil")
	}

	query := `
	SELECT
		station_id,
		name,
		x,
		y
	FROM stations
	ORDER BY station_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0, 16)
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Pos.X, &st.Pos.Y); err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return stations, nil
}
