package http

import (
	"net/http"

	"github.com/MKhiriev/refsync/internal/app"
)

// trigger wakes the background sync job, as a "changes available" push from
// the server would. It returns before the poll runs.
func (h *Handler) trigger(w http.ResponseWriter, r *http.Request) {
	h.syncJob.Trigger()

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(app.MsgSyncTriggered))
}
