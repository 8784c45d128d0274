package repositories

import (
	"context"
	"drone-route-service/internal/domain"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StationFile is the on-disk layout of a station table:
//
//	stations:
//	  - id: 0
//	    name: depot
//	    pos: {x: 2.70, y: 2.35}
type StationFile struct {
	Stations []domain.Station `yaml:"stations"`
}

// YAML-file implementation of the StationRepository port.
// The file is re-read on every call so edits apply without a restart.
type YAMLStationRepository struct {
	Path string
}

func NewYAMLStationRepository(path string) *YAMLStationRepository {
	return &YAMLStationRepository{Path: path}
}

func (r *YAMLStationRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	return LoadStationFile(r.Path)
}

// LoadStationFile reads and validates a YAML station table.
func LoadStationFile(path string) ([]domain.Station, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("load stations: path is empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load stations: read %q: %w", path, err)
	}

	return ParseStations(b)
}

// ParseStations decodes a YAML station table.
func ParseStations(b []byte) ([]domain.Station, error) {
	var f StationFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("load stations: parse yaml: %w", err)
	}

	if len(f.Stations) == 0 {
		return nil, errors.New("load stations: no stations defined")
	}

	for i := range f.Stations {
		f.Stations[i].Name = strings.TrimSpace(f.Stations[i].Name)
		if f.Stations[i].Name == "" {
			f.Stations[i].Name = fmt.Sprintf("station %d", f.Stations[i].ID)
		}
	}

	if _, err := domain.NewStationTable(f.Stations); err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}

	return f.Stations, nil
}
