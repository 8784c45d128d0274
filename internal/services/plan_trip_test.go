package services

import (
	"context"
	"drone-route-service/internal/adapters/repositories"
	"drone-route-service/internal/adapters/textio"
	"drone-route-service/internal/domain"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu         sync.Mutex
	plans      map[string]*domain.TripPlan
	gets, puts int
	err        error
}

func newMemCache() *memCache { return &memCache{plans: map[string]*domain.TripPlan{}} }

func (c *memCache) Get(ctx context.Context, key string) (*domain.TripPlan, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	p, ok := c.plans[key]
	return p, ok, nil
}

func (c *memCache) Put(ctx context.Context, key string, plan *domain.TripPlan, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.err != nil {
		return c.err
	}
	c.plans[key] = plan
	return nil
}

func scenarioRepo() *repositories.MemoryStationRepository {
	return repositories.NewMemoryStationRepository([]domain.Station{
		station(0, 0, 0),
		station(1, 4, 3),
		station(2, 4, 2),
		station(3, 1, 3),
	})
}

func TestPlanTripScenario(t *testing.T) {
	req := PlanTripRequest{Selection: domain.NewTripSelection(1, 2, 3)}

	plan, err := PlanTrip(context.Background(), req, scenarioRepo(), nil)
	require.NoError(t, err)

	require.Equal(t, []int{0, 1, 2, 3}, plan.Selection)
	require.Equal(t, 5.0, plan.Matrix[0][1])
	require.Equal(t, 1.0, plan.Matrix[1][2])

	// the two mirror images of the optimal loop cost the same
	require.Contains(t, [][]int{{0, 2, 1, 3, 0}, {0, 3, 1, 2, 0}}, plan.Route)
	require.InDelta(t, 11.636, plan.TotalDistance, 1e-9)

	want := bruteForce(plan.Matrix)
	route, err := DecodeRoute(want, plan.Selection)
	require.NoError(t, err)
	require.Equal(t, route, plan.Route)

	require.Len(t, plan.Waypoints, 5)
	require.Len(t, plan.Commands, 4)
	require.NotEmpty(t, plan.ID)
	require.Len(t, domain.CommandLines(plan.Commands), 8)
}

func TestPlanTripDepotOnlyLoop(t *testing.T) {
	repo := repositories.NewMemoryStationRepository([]domain.Station{
		station(0, 0, 0),
		station(1, 3, 4),
	})

	plan, err := PlanTrip(context.Background(), PlanTripRequest{Selection: domain.NewTripSelection(1)}, repo, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 0}, plan.Route)
	require.Equal(t, 10.0, plan.TotalDistance)

	require.Len(t, plan.Commands, 2)
	require.Equal(t, domain.Clockwise, plan.Commands[0].Sense)
	require.InDelta(t, 36.87, plan.Commands[0].Degrees, 1e-9)
	require.Equal(t, 500, plan.Commands[0].Forward)
	require.Equal(t, domain.CounterClockwise, plan.Commands[1].Sense)
	require.Equal(t, 500, plan.Commands[1].Forward)
}

func TestPlanTripOptimizesHandedOffMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), textio.MatrixFile)
	req := PlanTripRequest{
		Selection: domain.NewTripSelection(1, 2, 3),
		MatrixHandOff: func(m domain.DistanceMatrix) (domain.DistanceMatrix, error) {
			if err := textio.SaveMatrix(path, m); err != nil {
				return nil, err
			}
			return textio.LoadMatrix(path)
		},
	}

	plan, err := PlanTrip(context.Background(), req, scenarioRepo(), nil)
	require.NoError(t, err)
	require.InDelta(t, 11.636, plan.TotalDistance, 1e-9)

	onDisk, err := textio.LoadMatrix(path)
	require.NoError(t, err)
	require.Equal(t, plan.Matrix, onDisk)
}

func TestPlanTripMatrixHandOffFailure(t *testing.T) {
	req := PlanTripRequest{
		Selection: domain.NewTripSelection(1, 2),
		MatrixHandOff: func(domain.DistanceMatrix) (domain.DistanceMatrix, error) {
			return domain.DistanceMatrix{{0}}, nil
		},
	}
	_, err := PlanTrip(context.Background(), req, scenarioRepo(), nil)
	require.ErrorContains(t, err, "got 1 rows for 3 stations")

	req.MatrixHandOff = func(domain.DistanceMatrix) (domain.DistanceMatrix, error) {
		return nil, errors.New("disk full")
	}
	_, err = PlanTrip(context.Background(), req, scenarioRepo(), nil)
	require.ErrorContains(t, err, "disk full")
}

func TestPlanTripRejectsInvalidSelection(t *testing.T) {
	ctx := context.Background()
	repo := scenarioRepo()

	cases := []PlanTripRequest{
		{Selection: domain.NewTripSelection()},
		{Selection: domain.NewTripSelection(1, 2, 3), MaxStops: 2},
		{Selection: domain.NewTripSelection(1, 9)},
		{Selection: domain.NewTripSelection(0, 1)},
	}

	for _, req := range cases {
		_, err := PlanTrip(ctx, req, repo, nil)
		require.ErrorIs(t, err, ErrInvalidTrip, "selection %v", req.Selection.Visit)
	}
}

func TestPlanTripUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	req := PlanTripRequest{Selection: domain.NewTripSelection(3, 1, 2), CacheTTL: time.Minute}

	first, err := PlanTrip(ctx, req, scenarioRepo(), cache)
	require.NoError(t, err)
	second, err := PlanTrip(ctx, req, scenarioRepo(), cache)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 2, cache.gets)
	require.Equal(t, 1, cache.puts)
}

func TestPlanTripIgnoresCacheFailures(t *testing.T) {
	cache := newMemCache()
	cache.err = errors.New("cache down")

	plan, err := PlanTrip(context.Background(), PlanTripRequest{Selection: domain.NewTripSelection(1, 2)}, scenarioRepo(), cache)
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Equal(t, 1, cache.puts)
}

func TestPlanTripSearchTimeout(t *testing.T) {
	stations := []domain.Station{station(0, 0, 0)}
	ids := make([]int, 0, 11)
	for i := 1; i <= 11; i++ {
		stations = append(stations, station(i, float64(i%4), float64(i/4)))
		ids = append(ids, i)
	}

	req := PlanTripRequest{
		Selection:     domain.NewTripSelection(ids...),
		SearchTimeout: time.Nanosecond,
		Optimize:      OptimizeOptions{DisablePruning: true},
	}
	_, err := PlanTrip(context.Background(), req, repositories.NewMemoryStationRepository(stations), nil)
	require.ErrorIs(t, err, ErrSearchAborted)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPlanKey(t *testing.T) {
	a := []domain.Station{station(0, 0, 0), station(1, 4, 3)}
	b := []domain.Station{station(0, 0, 0), station(1, 4, 3.5)}

	require.Equal(t, PlanKey(a), PlanKey(a))
	require.NotEqual(t, PlanKey(a), PlanKey(b))
	require.Regexp(t, `^trip:[0-9a-f]+$`, PlanKey(a))
}
