package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/refsync/internal/logger"
)

// getHealth serves the agent's health report. The body is the same either
// way; the status code turns 503 while any entity type is stuck or failing
// so that a plain HTTP probe can alert on it.
func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	status, err := h.status.Status(r.Context())
	if err != nil {
		log.Err(err).Msg("error building health report")
		writeError(w, err)
		return
	}

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := responseFromError(err)
	http.Error(w, resp.message, resp.status)
}
