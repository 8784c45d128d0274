package services

import (
	"drone-route-service/internal/domain"
	"math"

	"github.com/shopspring/decimal"
)

// Decimal places kept by the distance matrix and by headings.
const (
	DistancePlaces = 3
	AnglePlaces    = 2
)

// BuildDistanceMatrix computes pairwise Euclidean distances between the
// selected stations, indexed by their position in stations.
//
// Every off-diagonal entry is rounded up (ceiling) to DistancePlaces decimals,
// which biases all distances slightly upward. The diagonal is zero and the
// matrix is symmetric by construction.
func BuildDistanceMatrix(stations []domain.Station) (domain.DistanceMatrix, error) {
	if len(stations) == 0 {
		return nil, domain.ErrEmptySelection
	}

	n := len(stations)
	m := make(domain.DistanceMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := CeilRound(stations[i].Pos.DistanceTo(stations[j].Pos), DistancePlaces)
			m[i][j] = d
			m[j][i] = d
		}
	}

	return m, nil
}

// CeilRound rounds x up to the given number of decimal places.
//
// Rounding works on the shortest decimal representation of x, so values that
// print exactly (1.1, 36.87) are returned unchanged instead of being bumped by
// binary representation error.
func CeilRound(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || places < 0 {
		return x
	}

	f, _ := decimal.NewFromFloat(x).RoundCeil(int32(places)).Float64()
	return f
}
