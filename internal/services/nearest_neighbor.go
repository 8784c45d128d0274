package services

import (
	"drone-route-service/internal/domain"
	"math"
)

// NearestNeighborTour builds a greedy round trip from the depot (index 0).
//
// At each step the closest unvisited index is taken; ties go to the lower
// index so the result is deterministic. The tour is not optimal and is only
// used to seed the pruning bound of the exact search.
func NearestNeighborTour(m domain.DistanceMatrix) domain.Tour {
	n := m.Size()
	if n == 0 {
		return domain.Tour{}
	}

	visited := make([]bool, n)
	visited[0] = true

	order := make([]int, 0, n+1)
	order = append(order, 0)

	current := 0
	total := 0.0
	for len(order) < n {
		best := -1
		bestDist := math.Inf(1)
		for v := 1; v < n; v++ {
			if visited[v] {
				continue
			}
			if d := m.At(current, v); d < bestDist {
				bestDist = d
				best = v
			}
		}
		if best < 0 {
			break
		}

		visited[best] = true
		order = append(order, best)
		total += bestDist
		current = best
	}

	total += m.At(current, 0)
	order = append(order, 0)

	return domain.Tour{Order: order, Total: total}
}
