package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/models"
)

const defaultSyncInterval = 5 * time.Minute

type clientSyncJob struct {
	transport    adapter.Transport
	orchestrator SyncOrchestrator
	logger       *logger.Logger

	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that polls the change manifest and
// hands it to orchestrator. The job is idle until Start is called.
func NewClientSyncJob(transport adapter.Transport, orchestrator SyncOrchestrator, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		transport:    transport,
		orchestrator: orchestrator,
		logger:       logger,
		trigger:      make(chan struct{}, 1),
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that polls once right away and then on
// every tick or trigger. If interval is zero or negative it defaults to 5
// minutes. The goroutine exits when ctx is cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		j.poll(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.poll(jobCtx)
			case <-j.trigger:
				j.poll(jobCtx)
				t.Reset(interval)
			}
		}
	}()
}

// Trigger implements ClientSyncJob.
func (j *clientSyncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *clientSyncJob) poll(ctx context.Context) {
	report, err := RunOnce(ctx, j.transport, j.orchestrator)
	if err != nil {
		j.logger.Error().Err(err).
			Str("cycle_id", report.CycleID).
			Int("failed", len(report.Errors)).
			Msg("sync poll finished with errors")
		return
	}
	j.logger.Debug().
		Str("cycle_id", report.CycleID).
		Int("synced", len(report.Results)).
		Msg("sync poll finished")
}

// RunOnce fetches the change manifest and runs one cycle over it. A manifest
// request rejected as unauthorized is retried once after re-registration.
func RunOnce(ctx context.Context, transport adapter.Transport, orchestrator SyncOrchestrator) (models.CycleReport, error) {
	manifest, err := transport.GetManifest(ctx)
	if errors.Is(err, adapter.ErrUnauthorized) {
		if regErr := transport.Register(ctx); regErr != nil {
			return models.CycleReport{}, classifyTransportError("", "re-register", regErr)
		}
		manifest, err = transport.GetManifest(ctx)
	}
	if err != nil {
		return models.CycleReport{}, classifyTransportError("", "get manifest", fmt.Errorf("fetch change manifest: %w", err))
	}

	return orchestrator.RunCycle(ctx, manifest)
}
