package api

import (
	"drone-route-service/internal/adapters/repositories"
	"drone-route-service/internal/api/dto"
	"drone-route-service/internal/domain"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, trips TripSettings) *httptest.Server {
	t.Helper()
	repo := repositories.NewMemoryStationRepository([]domain.Station{
		{ID: 0, Name: "depot", Pos: domain.Point{X: 0, Y: 0}},
		{ID: 1, Name: "a", Pos: domain.Point{X: 4, Y: 3}},
		{ID: 2, Name: "b", Pos: domain.Point{X: 4, Y: 2}},
		{ID: 3, Name: "c", Pos: domain.Point{X: 1, Y: 3}},
	})
	srv := httptest.NewServer(NewRouter(repo, nil, trips))
	t.Cleanup(srv.Close)
	return srv
}

func postTrip(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/trips", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, TripSettings{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, 4.0, body["stations"])
}

func TestListStations(t *testing.T) {
	srv := newTestServer(t, TripSettings{})

	resp, err := http.Get(srv.URL + "/stations")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res dto.ListStationsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res.Stations, 4)
	require.Equal(t, dto.StationResponse{ID: 1, Name: "a", X: 4, Y: 3}, res.Stations[1])
}

func TestPlanTrip(t *testing.T) {
	srv := newTestServer(t, TripSettings{MaxStops: 8})

	resp := postTrip(t, srv, `{"stations":[1,2,3]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res dto.TripResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Equal(t, []int{0, 1, 2, 3}, res.Selection)
	require.Len(t, res.Route, 5)
	require.Equal(t, 0, res.Route[0])
	require.Equal(t, 0, res.Route[4])
	require.InDelta(t, 11.636, res.TotalDistance, 1e-9)
	require.Len(t, res.Commands, 4)
	require.Len(t, res.Lines, 8)
	require.True(t, strings.HasPrefix(res.Lines[1], "forward "))
}

func TestPlanTripParallelMatchesSequential(t *testing.T) {
	srv := newTestServer(t, TripSettings{})

	var seq, par dto.TripResponse
	require.NoError(t, json.NewDecoder(postTrip(t, srv, `{"stations":[3,1,2]}`).Body).Decode(&seq))
	require.NoError(t, json.NewDecoder(postTrip(t, srv, `{"stations":[3,1,2],"parallel":true}`).Body).Decode(&par))
	require.Equal(t, seq.Route, par.Route)
	require.Equal(t, seq.Lines, par.Lines)
}

func TestPlanTripBadRequests(t *testing.T) {
	srv := newTestServer(t, TripSettings{MaxStops: 2})

	cases := map[string]string{
		"not json":      `{`,
		"unknown field": `{"stops":[1]}`,
		"trailing data": `{"stations":[1]}{}`,
		"empty":         `{"stations":[]}`,
		"too many":      `{"stations":[1,2,3]}`,
		"unknown id":    `{"stations":[7]}`,
		"depot listed":  `{"stations":[0,1]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postTrip(t, srv, body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRouterErrorsAreJSON(t *testing.T) {
	srv := newTestServer(t, TripSettings{})

	resp, err := http.Get(srv.URL + "/trips")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp2, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, TripSettings{})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
