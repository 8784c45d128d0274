package ports

import (
	"context"
	"drone-route-service/internal/domain"
	"time"
)

// Optional store of compiled trip plans keyed by selection fingerprint.
// Implementations must treat a missing key as (nil, false, nil).
type PlanCache interface {
	Get(ctx context.Context, key string) (*domain.TripPlan, bool, error)
	Put(ctx context.Context, key string, plan *domain.TripPlan, ttl time.Duration) error
}
