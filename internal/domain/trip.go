package domain

import (
	"errors"
	"fmt"
)

var ErrEmptySelection = errors.New("trip selection must contain at least one station besides the depot")

// TripSelection is the operator-chosen, ordered list of stations to visit.
// The depot is implied as both start and end and is never listed explicitly.
// Duplicates are kept as given.
type TripSelection struct {
	Visit []int
}

func NewTripSelection(ids ...int) TripSelection {
	return TripSelection{Visit: append([]int(nil), ids...)}
}

// Validate rejects selections the route optimizer has no contract for.
func (s TripSelection) Validate(maxStops int) error {
	if len(s.Visit) == 0 {
		return ErrEmptySelection
	}
	if maxStops > 0 && len(s.Visit) > maxStops {
		return fmt.Errorf("trip selection has %d stations, limit is %d", len(s.Visit), maxStops)
	}
	for i, id := range s.Visit {
		if id == DepotID {
			return fmt.Errorf("trip selection index %d: depot %d is implied and must not be listed", i, DepotID)
		}
	}
	return nil
}

// Stations returns the full selection as matrix positions see it: depot first.
func (s TripSelection) Stations() []int {
	out := make([]int, 0, len(s.Visit)+1)
	out = append(out, DepotID)
	return append(out, s.Visit...)
}
