package services

import (
	"drone-route-service/internal/domain"
	"fmt"
	"math"
)

// RelativeTurn returns the rotation that pivots the vehicle from heading
// prev to heading next.
//
// The difference of the signed headings is used as is: it is not wrapped to
// the shorter rotation, so two headings near ±180 of opposite sense produce
// a turn close to 360.
func RelativeTurn(prev, next domain.Heading) (domain.Sense, float64) {
	diff := next.Signed() - prev.Signed()
	sense := domain.Clockwise
	if diff < 0 {
		sense = domain.CounterClockwise
	}
	return sense, CeilRound(math.Abs(diff), AnglePlaces)
}

// SequenceTurns compiles a route and its segment headings into turn commands.
//
// The first command carries the absolute heading of the first segment since
// the vehicle has no earlier heading to turn from; every later command turns
// relative to the previous segment. Forward distances are in centimetres:
// intermediate legs use the matrix-rounded distance, the return leg the raw
// distance, both truncated.
func SequenceTurns(route []domain.Station, headings []domain.Heading) ([]domain.TurnCommand, error) {
	if len(route) < 2 {
		return nil, fmt.Errorf("sequence turns: route needs at least 2 waypoints, got %d", len(route))
	}

	segments := len(route) - 1
	if len(headings) != segments {
		return nil, fmt.Errorf("sequence turns: %d headings for %d segments", len(headings), segments)
	}

	cmds := make([]domain.TurnCommand, 0, segments)
	for i := 0; i < segments; i++ {
		var cmd domain.TurnCommand
		if i == 0 {
			cmd.Sense, cmd.Degrees = headings[0].Sense, headings[0].Magnitude
		} else {
			cmd.Sense, cmd.Degrees = RelativeTurn(headings[i-1], headings[i])
		}

		d := route[i].Pos.DistanceTo(segmentEnd(route, i).Pos)
		if i < segments-1 {
			d = CeilRound(d, DistancePlaces)
		}
		cmd.Forward = int(d * 100)

		cmds = append(cmds, cmd)
	}

	return cmds, nil
}
