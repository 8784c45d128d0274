package domain

import (
	"errors"
	"fmt"
	"sort"
)

// DepotID identifies the fixed start and end waypoint of every trip.
const DepotID = 0

var ErrUnknownStation = errors.New("unknown station")

// Represents a fixed, named waypoint the vehicle can visit.
// Stations are immutable once loaded from the coordinate store.
type Station struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Pos  Point  `json:"pos" yaml:"pos"`
}

// StationTable is a read-only index of stations by identifier.
type StationTable struct {
	byID map[int]Station
}

// NewStationTable indexes stations by ID and rejects duplicate identifiers.
// The depot must be present.
func NewStationTable(stations []Station) (*StationTable, error) {
	byID := make(map[int]Station, len(stations))
	for _, s := range stations {
		if s.ID < 0 {
			return nil, fmt.Errorf("station table: negative station id %d", s.ID)
		}
		if _, ok := byID[s.ID]; ok {
			return nil, fmt.Errorf("station table: duplicate station id %d", s.ID)
		}
		byID[s.ID] = s
	}

	if _, ok := byID[DepotID]; !ok {
		return nil, fmt.Errorf("station table: depot station %d missing", DepotID)
	}

	return &StationTable{byID: byID}, nil
}

// Lookup returns the station with the given id.
func (t *StationTable) Lookup(id int) (Station, error) {
	s, ok := t.byID[id]
	if !ok {
		return Station{}, fmt.Errorf("lookup station %d: %w", id, ErrUnknownStation)
	}
	return s, nil
}

// Resolve maps ids to stations, preserving order and duplicates.
func (t *StationTable) Resolve(ids []int) ([]Station, error) {
	out := make([]Station, 0, len(ids))
	for _, id := range ids {
		s, err := t.Lookup(id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// All returns every station ordered by id.
func (t *StationTable) All() []Station {
	out := make([]Station, 0, len(t.byID))
	for _, s := range t.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

