package repositories

import (
	"context"
	"drone-route-service/internal/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStationRepositoryReturnsCopy(t *testing.T) {
	repo := NewMemoryStationRepository(DefaultStations())

	got, err := repo.ListStations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 7)
	require.Equal(t, domain.Point{X: 2.70, Y: 2.35}, got[0].Pos)

	got[0].Pos.X = 99
	again, err := repo.ListStations(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2.70, again[0].Pos.X)
}

func TestYAMLStationRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.yaml")
	content := `
stations:
  - id: 0
    name: depot
    pos: {x: 0, y: 0}
  - id: 1
    pos: {x: 4, y: 3}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := NewYAMLStationRepository(path).ListStations(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Station{
		{ID: 0, Name: "depot", Pos: domain.Point{}},
		{ID: 1, Name: "station 1", Pos: domain.Point{X: 4, Y: 3}},
	}, got)
}

func TestParseStationsRejectsBadTables(t *testing.T) {
	_, err := ParseStations([]byte("stations: []"))
	require.Error(t, err)

	_, err = ParseStations([]byte("stations:\n  - id: 1\n    pos: {x: 1, y: 1}\n"))
	require.Error(t, err, "depot missing")

	_, err = ParseStations([]byte("stations: [oops"))
	require.Error(t, err)

	_, err = LoadStationFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultStationsFileMatchesBuiltIn(t *testing.T) {
	got, err := LoadStationFile(filepath.Join("..", "..", "..", "data", "stations.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultStations(), got)
}
