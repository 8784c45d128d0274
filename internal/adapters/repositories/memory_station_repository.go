package repositories

import (
	"context"
	"drone-route-service/internal/domain"
)

// DefaultStations is the built-in coordinate table, in metres.
func DefaultStations() []domain.Station {
	return []domain.Station{
		{ID: 0, Name: "depot", Pos: domain.Point{X: 2.70, Y: 2.35}},
		{ID: 1, Name: "station 1", Pos: domain.Point{X: 1.60, Y: 0.12}},
		{ID: 2, Name: "station 2", Pos: domain.Point{X: 0.34, Y: 2.60}},
		{ID: 3, Name: "station 3", Pos: domain.Point{X: 2.61, Y: 3.43}},
		{ID: 4, Name: "station 4", Pos: domain.Point{X: 0.09, Y: 0.20}},
		{ID: 5, Name: "station 5", Pos: domain.Point{X: 1.10, Y: 3.78}},
		{ID: 6, Name: "station 6", Pos: domain.Point{X: 0.87, Y: 1.16}},
	}
}

// In-memory implementation of the StationRepository port.
type MemoryStationRepository struct {
	stations []domain.Station
}

func NewMemoryStationRepository(stations []domain.Station) *MemoryStationRepository {
	return &MemoryStationRepository{stations: append([]domain.Station(nil), stations...)}
}

// Return a copy of the configured stations.
func (r *MemoryStationRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	return append([]domain.Station(nil), r.stations...), nil
}
