package services

import (
	"drone-route-service/internal/domain"
	"errors"
	"fmt"
)

var ErrDecodeMismatch = errors.New("route decoder: tour does not match trip selection")

// DecodeRoute maps the optimizer's matrix indices back to station ids.
//
// selection is the full trip selection, depot first, exactly as used to
// build the matrix. The result has len(selection)+1 ids and starts and ends
// at the depot. A length or index mismatch means the optimizer misbehaved and
// must be treated as an internal error.
func DecodeRoute(tour domain.Tour, selection []int) ([]int, error) {
	if len(tour.Order) != len(selection)+1 {
		return nil, fmt.Errorf("%w: tour has %d entries, want %d", ErrDecodeMismatch, len(tour.Order), len(selection)+1)
	}

	route := make([]int, 0, len(tour.Order))
	for i, idx := range tour.Order {
		if idx < 0 || idx >= len(selection) {
			return nil, fmt.Errorf("%w: position %d holds index %d outside selection", ErrDecodeMismatch, i, idx)
		}
		route = append(route, selection[idx])
	}

	if route[0] != domain.DepotID || route[len(route)-1] != domain.DepotID {
		return nil, fmt.Errorf("%w: route %v does not start and end at the depot", ErrDecodeMismatch, route)
	}

	return route, nil
}
