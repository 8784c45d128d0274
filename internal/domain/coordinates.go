package domain

import "math"

// Immutable planar position in metres.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Delta returns (to.X - p.X, to.Y - p.Y).
func (p Point) Delta(to Point) (dx, dy float64) {
	return to.X - p.X, to.Y - p.Y
}

// DistanceTo returns the unrounded Euclidean distance between two points.
func (p Point) DistanceTo(to Point) float64 {
	dx, dy := p.Delta(to)
	return math.Sqrt(dx*dx + dy*dy)
}
