package ports

import (
	"context"
	"drone-route-service/internal/domain"
)

// Port: a boundary for retrieving the fixed station coordinate table.
type StationRepository interface {
	// Retrieve every station that trips may visit, depot included.
	ListStations(ctx context.Context) ([]domain.Station, error)
}
