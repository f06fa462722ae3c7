package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/refsync/internal/app"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/models"
)

type resyncResponse struct {
	CycleID string                                  `json:"cycle_id"`
	Results map[models.EntityType]models.SyncResult `json:"results"`
	Errors  map[models.EntityType]string            `json:"errors,omitempty"`
	Message string                                  `json:"message,omitempty"`
}

// resync runs a manual sync of the types named by the "type" query parameter
// (repeatable or comma separated, all types when absent). force=true drops
// the stored watermarks first. The request blocks until the sync finishes.
func (h *Handler) resync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	types, force, err := parseResyncQuery(r)
	if err != nil {
		log.Err(err).Msg("invalid resync request")
		writeError(w, err)
		return
	}

	report, err := h.orchestrator.Resync(r.Context(), types, force)
	if err != nil && report.CycleID == "" {
		// the sync never started
		log.Err(err).Msg("resync rejected")
		writeError(w, err)
		return
	}

	resp := resyncResponse{
		CycleID: report.CycleID,
		Results: report.Results,
	}
	if len(report.Errors) > 0 {
		resp.Errors = make(map[models.EntityType]string, len(report.Errors))
		for t, typeErr := range report.Errors {
			resp.Errors[t] = typeErr.Error()
		}
	}

	if err != nil {
		log.Err(err).Str("cycle_id", report.CycleID).Msg("resync finished with errors")
		resp.Message = app.MsgSyncFailed
		writeJSON(w, responseFromError(err).status, resp)
		return
	}

	log.Info().
		Str("cycle_id", report.CycleID).
		Int("types", len(report.Results)).
		Bool("force", force).
		Msg("resync finished")
	writeJSON(w, http.StatusOK, resp)
}

func parseResyncQuery(r *http.Request) ([]models.EntityType, bool, error) {
	query := r.URL.Query()

	var types []models.EntityType
	for _, raw := range query["type"] {
		for _, token := range strings.Split(raw, ",") {
			if strings.TrimSpace(token) == "" {
				continue
			}
			t, err := models.ParseEntityType(token)
			if err != nil {
				return nil, false, err
			}
			types = append(types, t)
		}
	}

	force := false
	if v := query.Get("force"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %q", ErrInvalidForceFlag, v)
		}
		force = parsed
	}

	return types, force, nil
}
