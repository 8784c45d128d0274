package handlers

import (
	"drone-route-service/internal/api/dto"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"net/http"
)

// StationHandler exposes the read-only station table.
type StationHandler struct {
	Repo ports.StationRepository
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Repo.ListStations(r.Context())
	if err != nil {
		obs.Logger(r.Context()).WithError(err).Error("list stations failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	table, err := domain.NewStationTable(stations)
	if err != nil {
		obs.Logger(r.Context()).WithError(err).Error("station table invalid")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStationsResponse{Stations: stationResponses(table.All())}
	writeJSON(w, r, http.StatusOK, res)
}

func stationResponses(stations []domain.Station) []dto.StationResponse {
	out := make([]dto.StationResponse, 0, len(stations))
	for _, s := range stations {
		out = append(out, dto.StationResponse{ID: s.ID, Name: s.Name, X: s.Pos.X, Y: s.Pos.Y})
	}
	return out
}
