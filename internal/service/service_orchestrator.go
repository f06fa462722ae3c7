// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/utils"
	"github.com/MKhiriev/refsync/models"
)

type syncOrchestrator struct {
	specs     []EntitySpec
	byType    map[models.EntityType]EntitySpec
	runner    SyncRunner
	transport adapter.Transport
	repeats   *RepeatCounter
	health    *HealthTracker

	// lock admits one cycle at a time; a buffered channel lets waiters give
	// up when their context ends.
	lock chan struct{}

	logger *logger.Logger
	now    func() time.Time
}

// NewSyncOrchestrator constructs a [SyncOrchestrator] over specs, which are
// processed in the given order. health may be nil.
func NewSyncOrchestrator(specs []EntitySpec, runner SyncRunner, transport adapter.Transport, repeats *RepeatCounter, health *HealthTracker, logger *logger.Logger) SyncOrchestrator {
	byType := make(map[models.EntityType]EntitySpec, len(specs))
	for _, s := range specs {
		byType[s.Type()] = s
	}

	return &syncOrchestrator{
		specs:     specs,
		byType:    byType,
		runner:    runner,
		transport: transport,
		repeats:   repeats,
		health:    health,
		lock:      make(chan struct{}, 1),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (o *syncOrchestrator) acquire(ctx context.Context) error {
	select {
	case o.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &SyncError{
			Kind: KindLockAcquisition,
			Op:   "acquire cycle lock",
			Err:  fmt.Errorf("%w: %w", ErrCycleLock, ctx.Err()),
		}
	}
}

func (o *syncOrchestrator) release() {
	<-o.lock
}

// RunCycle implements [SyncOrchestrator]. Failures of single types are
// collected in the report and joined into the returned error; the remaining
// types still run. Failing to take the cycle lock aborts the whole cycle.
func (o *syncOrchestrator) RunCycle(ctx context.Context, manifest models.Manifest) (models.CycleReport, error) {
	if err := o.acquire(ctx); err != nil {
		o.logger.Warn().Err(err).Msg("sync cycle not started")
		return models.CycleReport{}, err
	}
	defer o.release()

	report, ctx := o.newReport(ctx)
	log := logger.FromContext(ctx)
	log.Info().Int("manifest_types", len(manifest)).Msg("sync cycle started")

	var errs []error
	for _, spec := range o.specs {
		t := spec.Type()

		if !manifest.Has(t) {
			o.repeats.Reset(t)
			report.Skipped = append(report.Skipped, t)
			continue
		}
		o.repeats.Increment(t)

		if err := ctx.Err(); err != nil {
			errs = append(errs, classifyTransportError(t, "start sync", err))
			break
		}
		if err := o.syncType(ctx, spec, false, &report); err != nil {
			errs = append(errs, err)
		}
	}

	return o.finish(ctx, report, errs)
}

// Resync implements [SyncOrchestrator]. It leaves the repeat counters alone.
func (o *syncOrchestrator) Resync(ctx context.Context, types []models.EntityType, force bool) (models.CycleReport, error) {
	specs, err := o.resolve(types)
	if err != nil {
		return models.CycleReport{}, err
	}

	if err = o.acquire(ctx); err != nil {
		return models.CycleReport{}, err
	}
	defer o.release()

	report, ctx := o.newReport(ctx)
	logger.FromContext(ctx).Info().
		Int("types", len(specs)).
		Bool("force", force).
		Msg("manual resync started")

	var errs []error
	for _, spec := range specs {
		if err = ctx.Err(); err != nil {
			errs = append(errs, classifyTransportError(spec.Type(), "start sync", err))
			break
		}
		if err = o.syncType(ctx, spec, force, &report); err != nil {
			errs = append(errs, err)
		}
	}

	return o.finish(ctx, report, errs)
}

func (o *syncOrchestrator) resolve(types []models.EntityType) ([]EntitySpec, error) {
	if len(types) == 0 {
		return o.specs, nil
	}

	wanted := models.NewManifest(types...)
	specs := make([]EntitySpec, 0, len(wanted))
	for t := range wanted {
		if _, ok := o.byType[t]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEntitySpec, t)
		}
	}
	// keep registration order
	for _, s := range o.specs {
		if wanted.Has(s.Type()) {
			specs = append(specs, s)
		}
	}
	return specs, nil
}

// syncType runs one type. An unauthorized failure triggers one
// re-registration followed by one retry.
func (o *syncOrchestrator) syncType(ctx context.Context, spec EntitySpec, force bool, report *models.CycleReport) error {
	t := spec.Type()
	log := logger.FromContext(ctx).With().Str("entity_type", t.String()).Logger()
	started := o.now()

	res, err := o.runner.Sync(ctx, spec, force)
	if IsKind(err, KindUnauthorized) {
		log.Warn().Err(err).Msg("terminal unauthorized, re-registering")

		if regErr := o.transport.Register(ctx); regErr != nil {
			err = classifyTransportError(t, "re-register", regErr)
		} else {
			res, err = o.runner.Sync(ctx, spec, force)
		}
	}

	took := o.now().Sub(started)
	if err != nil {
		log.Error().Err(err).Str("kind", KindOf(err).String()).Msg("entity type sync failed")
		report.Errors[t] = err
		if o.health != nil {
			o.health.RecordFailure(t, err, took)
		}
		return err
	}

	report.Results[t] = res
	if o.health != nil {
		o.health.RecordSuccess(t, res, took)
	}
	return nil
}

func (o *syncOrchestrator) newReport(ctx context.Context) (models.CycleReport, context.Context) {
	cycleID := utils.NewID()
	report := models.CycleReport{
		CycleID: cycleID,
		Started: o.now(),
		Results: make(map[models.EntityType]models.SyncResult),
		Errors:  make(map[models.EntityType]error),
	}
	return report, o.logger.WithCycle(ctx, cycleID)
}

func (o *syncOrchestrator) finish(ctx context.Context, report models.CycleReport, errs []error) (models.CycleReport, error) {
	report.Finished = o.now()

	logger.FromContext(ctx).Info().
		Int("synced", len(report.Results)).
		Int("failed", len(report.Errors)).
		Int("skipped", len(report.Skipped)).
		Dur("took", report.Finished.Sub(report.Started)).
		Msg("sync cycle finished")

	return report, errors.Join(errs...)
}
