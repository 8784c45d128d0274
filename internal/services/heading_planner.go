package services

import (
	"drone-route-service/internal/domain"
	"math"
)

// PlanHeading returns the bearing of the segment from -> to, measured from
// the +Y axis: clockwise headings are positive, counter-clockwise negative.
//
// Coincident points yield a zero clockwise heading. The magnitude is rounded
// up to AnglePlaces decimals.
func PlanHeading(from, to domain.Point) domain.Heading {
	dx, dy := from.Delta(to)
	ax, ay := math.Abs(dx), math.Abs(dy)

	var h domain.Heading
	switch {
	case dx == 0:
		h.Sense = domain.Clockwise
		if dy < 0 {
			h.Magnitude = 180
		}
	case dy == 0:
		h.Magnitude = 90
		if dx < 0 {
			h.Sense = domain.CounterClockwise
		}
	case dx > 0 && dy > 0:
		h.Sense = domain.Clockwise
		h.Magnitude = degrees(math.Atan2(ax, ay))
	case dx > 0 && dy < 0:
		h.Sense = domain.Clockwise
		h.Magnitude = 90 + degrees(math.Atan2(ay, ax))
	case dx < 0 && dy > 0:
		h.Sense = domain.CounterClockwise
		h.Magnitude = degrees(math.Atan2(ax, ay))
	default:
		h.Sense = domain.CounterClockwise
		h.Magnitude = 180 - degrees(math.Atan2(ax, ay))
	}

	h.Magnitude = CeilRound(h.Magnitude, AnglePlaces)
	return h
}

// PlanHeadings returns one heading per segment of route. The last segment
// always closes back onto the first waypoint.
func PlanHeadings(route []domain.Station) []domain.Heading {
	if len(route) < 2 {
		return nil
	}

	segments := len(route) - 1
	out := make([]domain.Heading, 0, segments)
	for i := 0; i < segments; i++ {
		out = append(out, PlanHeading(route[i].Pos, segmentEnd(route, i).Pos))
	}
	return out
}

// segmentEnd is the waypoint segment i flies to; the final leg returns home.
func segmentEnd(route []domain.Station, i int) domain.Station {
	if i == len(route)-2 {
		return route[0]
	}
	return route[i+1]
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
