package dto

import "time"

type TripRequest struct {
	// Stations to visit, depot excluded.
	Stations []int `json:"stations"`
	// Parallel overrides the server default when set.
	Parallel *bool `json:"parallel"`
}

type CommandResponse struct {
	Sense     string  `json:"sense"`
	Degrees   float64 `json:"degrees"`
	ForwardCM int     `json:"forward_cm"`
}

type SearchResponse struct {
	Nodes      int64 `json:"nodes"`
	Pruned     int64 `json:"pruned"`
	Tours      int64 `json:"tours"`
	DurationMS int64 `json:"duration_ms"`
}

type TripResponse struct {
	ID            string            `json:"id"`
	PlannedAt     time.Time         `json:"planned_at"`
	Selection     []int             `json:"selection"`
	Route         []int             `json:"route"`
	Waypoints     []StationResponse `json:"waypoints"`
	TotalDistance float64           `json:"total_distance"`
	Matrix        [][]float64       `json:"matrix"`
	Commands      []CommandResponse `json:"commands"`
	Lines         []string          `json:"lines"`
	Search        SearchResponse    `json:"search"`
}
