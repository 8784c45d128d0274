package domain

import (
	"strconv"
	"time"
)

// DistanceMatrix is indexed by position in the trip selection, not by station id.
type DistanceMatrix [][]float64

func (m DistanceMatrix) Size() int { return len(m) }

func (m DistanceMatrix) At(i, j int) float64 { return m[i][j] }

// Tour is the optimizer's result over matrix indices, depot to depot.
type Tour struct {
	Order []int
	Total float64
}

// SearchStats summarizes one route optimization run.
type SearchStats struct {
	Nodes    int64         `json:"nodes"`
	Pruned   int64         `json:"pruned"`
	Tours    int64         `json:"tours"`
	Duration time.Duration `json:"duration_ns"`
}

// Sense is the rotation direction of a heading or turn.
type Sense int

const (
	// Clockwise rotation, the positive sense.
	Clockwise Sense = iota
	// CounterClockwise rotation, the negative sense.
	CounterClockwise
)

func (s Sense) String() string {
	if s == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

// Heading is the bearing of one directed segment, measured from the +Y axis.
// Magnitude lies in [0, 180].
type Heading struct {
	Sense     Sense
	Magnitude float64
}

// Signed returns the heading as a single value in (-180, 180].
func (h Heading) Signed() float64 {
	if h.Sense == CounterClockwise {
		return -h.Magnitude
	}
	return h.Magnitude
}

// TurnCommand rotates the vehicle in place, then moves it forward.
type TurnCommand struct {
	Sense   Sense   `json:"sense"`
	Degrees float64 `json:"degrees"`
	Forward int     `json:"forward_cm"`
}

// Lines renders the command in the vehicle's text protocol.
func (c TurnCommand) Lines() []string {
	return []string{
		c.Sense.String() + " " + strconv.FormatFloat(c.Degrees, 'f', -1, 64),
		"forward " + strconv.Itoa(c.Forward),
	}
}

// CommandLines flattens a command sequence into protocol lines, in order.
func CommandLines(cmds []TurnCommand) []string {
	out := make([]string, 0, 2*len(cmds))
	for _, c := range cmds {
		out = append(out, c.Lines()...)
	}
	return out
}

// Represents a fully compiled round trip.
// A TripPlan is immutable planning data: the optimal visiting order, the
// physical route as station ids and the motion commands to fly it.
type TripPlan struct {
	ID            string         `json:"id"`
	PlannedAt     time.Time      `json:"planned_at"`
	Selection     []int          `json:"selection"`
	Matrix        DistanceMatrix `json:"matrix"`
	Route         []int          `json:"route"`
	Waypoints     []Station      `json:"waypoints"`
	TotalDistance float64        `json:"total_distance"`
	Commands      []TurnCommand  `json:"commands"`
	Stats         SearchStats    `json:"stats"`
}
