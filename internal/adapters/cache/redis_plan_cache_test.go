package cache

import (
	"context"
	"drone-route-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisPlanCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := DialRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisPlanCache(client), mr
}

func TestRedisPlanCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "trip:missing")
	require.NoError(t, err)
	require.False(t, ok)

	plan := &domain.TripPlan{
		ID:            "p1",
		PlannedAt:     time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
		Selection:     []int{0, 1},
		Matrix:        domain.DistanceMatrix{{0, 5}, {5, 0}},
		Route:         []int{0, 1, 0},
		TotalDistance: 10,
		Commands: []domain.TurnCommand{
			{Sense: domain.Clockwise, Degrees: 53.14, Forward: 500},
			{Sense: domain.CounterClockwise, Degrees: 180, Forward: 500},
		},
	}
	require.NoError(t, c.Put(ctx, "trip:abc", plan, time.Minute))

	got, ok, err := c.Get(ctx, "trip:abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, plan.Route, got.Route)
	require.Equal(t, plan.Commands, got.Commands)
	require.Equal(t, plan.Matrix, got.Matrix)
	require.True(t, plan.PlannedAt.Equal(got.PlannedAt))
}

func TestRedisPlanCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "trip:ttl", &domain.TripPlan{ID: "p2"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "trip:ttl")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisPlanCacheCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("trip:bad", "{not json"))

	_, _, err := c.Get(context.Background(), "trip:bad")
	require.Error(t, err)
}
