package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/config"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/store"
	"github.com/MKhiriev/refsync/models"
)

// ClientServices owns one sync engine: the entity specs, the runner and
// orchestrator built over them, and the health signal they feed.
type ClientServices struct {
	Specs        *EntitySpecs
	Health       *HealthTracker
	Repeats      *RepeatCounter
	Runner       SyncRunner
	Orchestrator SyncOrchestrator
	SyncJob      ClientSyncJob
	Status       StatusService

	Transport adapter.Transport
}

// NewClientServices wires the sync engine over storages and transport.
// Metrics are registered with reg; pass nil to leave them unregistered.
func NewClientServices(storages *store.ClientStorages, transport adapter.Transport, cfg *config.ClientConfig, build models.AppBuildInfo, reg prometheus.Registerer, logger *logger.Logger) *ClientServices {
	specs := NewEntitySpecs(storages.EntityRepository)
	health := NewHealthTracker(reg)
	repeats := NewRepeatCounter(health, logger)

	reconciler := NewReconciler(transport, logger)
	runner := NewSyncRunner(transport, storages.SyncStateRepository, reconciler, cfg.Workers, logger)
	orchestrator := NewSyncOrchestrator(specs.All(), runner, transport, repeats, health, logger)

	return &ClientServices{
		Specs:        specs,
		Health:       health,
		Repeats:      repeats,
		Runner:       runner,
		Orchestrator: orchestrator,
		SyncJob:      NewClientSyncJob(transport, orchestrator, logger),
		Status:       NewStatusService(cfg.App, build, specs.All(), storages.SyncStateRepository, health, logger),
		Transport:    transport,
	}
}
