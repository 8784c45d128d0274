package services

import (
	"context"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/metrics"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// ErrInvalidTrip wraps every rejection caused by the caller's selection.
var ErrInvalidTrip = errors.New("invalid trip")

type PlanTripRequest struct {
	Selection domain.TripSelection
	// MaxStops bounds the factorial search; 0 means unlimited.
	MaxStops int
	// SearchTimeout bounds the optimizer; 0 means no deadline.
	SearchTimeout time.Duration
	Optimize      OptimizeOptions
	CacheTTL      time.Duration
	// MatrixHandOff, when set, receives the built distance matrix and
	// returns the one the optimizer reads, e.g. after a round trip through
	// the matrix file.
	MatrixHandOff func(domain.DistanceMatrix) (domain.DistanceMatrix, error)
}

// PlanTrip runs the whole pipeline for one trip: resolve the selection,
// build the distance matrix, find the optimal tour, decode it into stations
// and compile the motion commands.
//
// cache is optional. Cache failures are logged and never fail the plan.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	repo ports.StationRepository,
	cache ports.PlanCache,
) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "trip.Plan")(&err)

	if err := req.Selection.Validate(req.MaxStops); err != nil {
		return nil, fmt.Errorf("plan trip: %w: %w", ErrInvalidTrip, err)
	}

	list, err := repo.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan trip: list stations: %w", err)
	}
	table, err := domain.NewStationTable(list)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	selection := req.Selection.Stations()
	stations, err := table.Resolve(selection)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w: %w", ErrInvalidTrip, err)
	}

	key := PlanKey(stations)
	if cache != nil {
		plan, ok, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.PlanCacheRequests.WithLabelValues("error").Inc()
			obs.Logger(ctx).WithError(err).Warn("plan cache read failed")
		case ok:
			metrics.PlanCacheRequests.WithLabelValues("hit").Inc()
			return plan, nil
		default:
			metrics.PlanCacheRequests.WithLabelValues("miss").Inc()
		}
	}

	plan, err := CompileTrip(ctx, selection, stations, table, req)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	if cache != nil {
		if err := cache.Put(ctx, key, plan, req.CacheTTL); err != nil {
			obs.Logger(ctx).WithError(err).Warn("plan cache write failed")
		}
	}

	return plan, nil
}

// CompileTrip runs stages 2 to 6 on an already resolved selection.
func CompileTrip(
	ctx context.Context,
	selection []int,
	stations []domain.Station,
	table *domain.StationTable,
	req PlanTripRequest,
) (*domain.TripPlan, error) {
	matrix, err := BuildDistanceMatrix(stations)
	if err != nil {
		return nil, fmt.Errorf("build distance matrix: %w", err)
	}
	if req.MatrixHandOff != nil {
		if matrix, err = req.MatrixHandOff(matrix); err != nil {
			return nil, fmt.Errorf("hand off distance matrix: %w", err)
		}
		if len(matrix) != len(stations) {
			return nil, fmt.Errorf("hand off distance matrix: got %d rows for %d stations", len(matrix), len(stations))
		}
	}

	searchCtx := ctx
	if req.SearchTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, req.SearchTimeout)
		defer cancel()
	}

	tour, stats, err := OptimizeRoute(searchCtx, matrix, req.Optimize)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	route, err := DecodeRoute(tour, selection)
	if err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}

	waypoints, err := table.Resolve(route)
	if err != nil {
		return nil, fmt.Errorf("resolve route: %w", err)
	}

	cmds, err := SequenceTurns(waypoints, PlanHeadings(waypoints))
	if err != nil {
		return nil, fmt.Errorf("compile commands: %w", err)
	}

	return &domain.TripPlan{
		ID:            uuid.New().String(),
		PlannedAt:     time.Now().UTC(),
		Selection:     selection,
		Matrix:        matrix,
		Route:         route,
		Waypoints:     waypoints,
		TotalDistance: tour.Total,
		Commands:      cmds,
		Stats:         stats,
	}, nil
}

// PlanKey fingerprints a resolved selection, ids and coordinates, so a moved
// station never serves a stale plan.
func PlanKey(stations []domain.Station) string {
	d := xxhash.New()
	for _, s := range stations {
		_, _ = d.WriteString(strconv.Itoa(s.ID))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(strconv.FormatFloat(s.Pos.X, 'g', -1, 64))
		_, _ = d.WriteString(",")
		_, _ = d.WriteString(strconv.FormatFloat(s.Pos.Y, 'g', -1, 64))
		_, _ = d.WriteString(";")
	}
	return "trip:" + strconv.FormatUint(d.Sum64(), 16)
}
