package handlers

import (
	"drone-route-service/internal/platform/obs"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger(r.Context()).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// NotFound and MethodNotAllowed keep router-level errors in the JSON shape.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
