package handlers

import (
	"drone-route-service/internal/api/dto"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"drone-route-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

type TripHandler struct {
	Repo  ports.StationRepository
	Cache ports.PlanCache

	MaxStops       int
	SearchTimeout  time.Duration
	ParallelSearch bool
	CacheTTL       time.Duration
}

// Plan compiles one round trip from the depot through the requested stations.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.TripRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	parallel := h.ParallelSearch
	if req.Parallel != nil {
		parallel = *req.Parallel
	}

	svcReq := services.PlanTripRequest{
		Selection:     domain.NewTripSelection(req.Stations...),
		MaxStops:      h.MaxStops,
		SearchTimeout: h.SearchTimeout,
		Optimize:      services.OptimizeOptions{SeedBound: true, Parallel: parallel},
		CacheTTL:      h.CacheTTL,
	}

	plan, err := services.PlanTrip(r.Context(), svcReq, h.Repo, h.Cache)
	switch {
	case errors.Is(err, services.ErrInvalidTrip):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrSearchAborted):
		obs.Logger(r.Context()).WithError(err).Warn("route search aborted")
		writeError(w, r, http.StatusServiceUnavailable, "route search did not finish in time")
		return
	case err != nil:
		obs.Logger(r.Context()).WithError(err).Error("plan trip failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, tripResponse(plan))
}

func tripResponse(p *domain.TripPlan) dto.TripResponse {
	cmds := make([]dto.CommandResponse, 0, len(p.Commands))
	for _, c := range p.Commands {
		cmds = append(cmds, dto.CommandResponse{
			Sense:     c.Sense.String(),
			Degrees:   c.Degrees,
			ForwardCM: c.Forward,
		})
	}

	return dto.TripResponse{
		ID:            p.ID,
		PlannedAt:     p.PlannedAt,
		Selection:     p.Selection,
		Route:         p.Route,
		Waypoints:     stationResponses(p.Waypoints),
		TotalDistance: p.TotalDistance,
		Matrix:        p.Matrix,
		Commands:      cmds,
		Lines:         domain.CommandLines(p.Commands),
		Search: dto.SearchResponse{
			Nodes:      p.Stats.Nodes,
			Pruned:     p.Stats.Pruned,
			Tours:      p.Stats.Tours,
			DurationMS: p.Stats.Duration.Milliseconds(),
		},
	}
}
