package http

import (
	"net/http"
)

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	build := h.status.BuildInfo()

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(build.BuildVersion()))
}
