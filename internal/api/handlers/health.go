package handlers

import (
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"net/http"
)

// HealthHandler reports liveness plus whether the station table is readable.
type HealthHandler struct {
	Repo ports.StationRepository
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Repo.ListStations(r.Context())
	if err != nil {
		obs.Logger(r.Context()).WithError(err).Warn("health: station table unavailable")
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "stations": len(stations)})
}
