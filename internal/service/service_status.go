package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/refsync/internal/config"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/store"
	"github.com/MKhiriev/refsync/models"
)

// StatusService assembles the agent's health report.
type StatusService interface {
	// Status combines the health signal of every type with its stored
	// watermark and local record count.
	Status(ctx context.Context) (models.Status, error)
	// BuildInfo returns the build metadata of the running binary.
	BuildInfo() models.AppBuildInfo
}

type statusService struct {
	terminalID string
	build      models.AppBuildInfo

	specs  []EntitySpec
	states store.SyncStateRepository
	health *HealthTracker

	logger *logger.Logger
}

func NewStatusService(cfg config.ClientApp, build models.AppBuildInfo, specs []EntitySpec, states store.SyncStateRepository, health *HealthTracker, logger *logger.Logger) StatusService {
	return &statusService{
		terminalID: cfg.TerminalID,
		build:      build,
		specs:      specs,
		states:     states,
		health:     health,
		logger:     logger,
	}
}

func (s *statusService) BuildInfo() models.AppBuildInfo {
	return s.build
}

func (s *statusService) Status(ctx context.Context) (models.Status, error) {
	states, err := s.states.ListStates(ctx)
	if err != nil {
		return models.Status{}, fmt.Errorf("list sync states: %w", err)
	}
	revisions := make(map[models.EntityType]models.Revision, len(states))
	for _, st := range states {
		revisions[st.EntityType] = st.LastRevision
	}

	healthByType := make(map[models.EntityType]models.TypeHealth)
	for _, h := range s.health.Snapshot() {
		healthByType[h.EntityType] = h
	}

	status := models.Status{
		Healthy:    s.health.Healthy(),
		TerminalID: s.terminalID,
		Build:      s.build,
		Types:      make([]models.TypeStatus, 0, len(s.specs)),
	}
	for _, spec := range s.specs {
		t := spec.Type()
		count, err := spec.LocalCount(ctx)
		if err != nil {
			return models.Status{}, fmt.Errorf("count %s: %w", t, err)
		}

		h, ok := healthByType[t]
		if !ok {
			h = models.TypeHealth{EntityType: t}
		}
		status.Types = append(status.Types, models.TypeStatus{
			TypeHealth:   h,
			LastRevision: revisions[t],
			LocalCount:   count,
		})
	}

	return status, nil
}
