package services

import (
	"drone-route-service/internal/domain"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanHeading(t *testing.T) {
	origin := domain.Point{}

	cases := []struct {
		name  string
		to    domain.Point
		sense domain.Sense
		mag   float64
	}{
		{"north", domain.Point{X: 0, Y: 2}, domain.Clockwise, 0},
		{"south", domain.Point{X: 0, Y: -2}, domain.Clockwise, 180},
		{"east", domain.Point{X: 3, Y: 0}, domain.Clockwise, 90},
		{"west", domain.Point{X: -3, Y: 0}, domain.CounterClockwise, 90},
		{"same point", domain.Point{}, domain.Clockwise, 0},
		{"north east", domain.Point{X: 3, Y: 4}, domain.Clockwise, 36.87},
		{"south east", domain.Point{X: 4, Y: -3}, domain.Clockwise, 126.87},
		{"north west", domain.Point{X: -3, Y: 4}, domain.CounterClockwise, 36.87},
		{"south west", domain.Point{X: -3, Y: -4}, domain.CounterClockwise, 143.14},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := PlanHeading(origin, c.to)
			require.Equal(t, c.sense, h.Sense)
			require.InDelta(t, c.mag, h.Magnitude, 1e-9)
		})
	}
}

func TestPlanHeadingRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		from := domain.Point{X: rng.Float64()*10 - 5, Y: rng.Float64()*10 - 5}
		to := domain.Point{X: rng.Float64()*10 - 5, Y: rng.Float64()*10 - 5}

		h := PlanHeading(from, to)
		assert.GreaterOrEqual(t, h.Magnitude, 0.0)
		assert.LessOrEqual(t, h.Magnitude, 180.0)
		assert.Equal(t, h, PlanHeading(from, to))
	}
}

func TestPlanHeadingsClosesLoop(t *testing.T) {
	route := []domain.Station{
		station(0, 0, 0),
		station(1, 0, 1),
		station(2, 1, 1),
		station(0, 0, 0),
	}

	hs := PlanHeadings(route)
	require.Len(t, hs, 3)
	require.Equal(t, domain.Heading{Sense: domain.Clockwise, Magnitude: 0}, hs[0])
	require.Equal(t, domain.Heading{Sense: domain.Clockwise, Magnitude: 90}, hs[1])
	require.Equal(t, domain.CounterClockwise, hs[2].Sense)
	require.Equal(t, 135.0, hs[2].Magnitude)

	require.Nil(t, PlanHeadings(route[:1]))
}
