package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/service"
)

type Handler struct {
	status       service.StatusService
	orchestrator service.SyncOrchestrator
	syncJob      service.ClientSyncJob
	metrics      http.Handler

	logger *logger.Logger
}

// NewHandler builds the diagnostics handler over services. Metrics are served
// from gatherer.
func NewHandler(services *service.ClientServices, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		status:       services.Status,
		orchestrator: services.Orchestrator,
		syncJob:      services.SyncJob,
		metrics:      promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		logger:       logger,
	}
}
