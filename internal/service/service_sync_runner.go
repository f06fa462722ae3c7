// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/config"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/store"
	"github.com/MKhiriev/refsync/models"
)

type syncRunner struct {
	transport  adapter.Transport
	states     store.SyncStateRepository
	reconciler Reconciler
	maxPages   int

	logger *logger.Logger
}

// NewSyncRunner constructs the incremental [SyncRunner]. cfg.MaxPages bounds
// the number of pages one Sync may request; zero disables the bound.
func NewSyncRunner(transport adapter.Transport, states store.SyncStateRepository, reconciler Reconciler, cfg config.ClientWorkers, logger *logger.Logger) SyncRunner {
	return &syncRunner{
		transport:  transport,
		states:     states,
		reconciler: reconciler,
		maxPages:   cfg.MaxPages,
		logger:     logger,
	}
}

// Sync implements [SyncRunner].
//
// Items of a page are applied as they arrive. The watermark only moves once a
// page has been read to its end marker, so a page that fails mid-stream is
// requested again on the next sync; re-applying its items is harmless.
//
// When the counts still disagree after orphans are removed, records the
// server holds are missing locally. The type is then restreamed once from the
// beginning; a mismatch that survives the restream fails with
// ErrCountMismatch.
func (r *syncRunner) Sync(ctx context.Context, spec EntitySpec, forceFullResync bool) (models.SyncResult, error) {
	t := spec.Type()
	log := logger.FromContextOr(ctx, r.logger).With().Str("entity_type", t.String()).Logger()
	result := models.SyncResult{EntityType: t}

	since, err := r.startRevision(ctx, t, forceFullResync)
	if err != nil {
		return result, err
	}
	result.Revision = since

	if err = r.drain(ctx, spec, since, &result); err != nil {
		return result, err
	}

	localCount, err := spec.LocalCount(ctx)
	if err != nil {
		return result, newStoreError(t, "count local records", err)
	}

	if localCount != result.ServerCount {
		log.Info().
			Int("local_count", localCount).
			Int("server_count", result.ServerCount).
			Msg("record counts differ, reconciling")

		result.Reconciled = true
		result.Orphans, err = r.reconciler.Reconcile(ctx, spec)
		if err != nil {
			return result, err
		}

		if localCount, err = spec.LocalCount(ctx); err != nil {
			return result, newStoreError(t, "count local records", err)
		}
	}

	if localCount != result.ServerCount && !forceFullResync {
		log.Warn().
			Int("local_count", localCount).
			Int("server_count", result.ServerCount).
			Msg("records missing locally, restreaming from the first revision")

		if err = r.states.ResetState(ctx, t); err != nil {
			return result, newStoreError(t, "reset revision", err)
		}
		result.Restreamed = true
		if err = r.drain(ctx, spec, "", &result); err != nil {
			return result, err
		}

		if localCount, err = spec.LocalCount(ctx); err != nil {
			return result, newStoreError(t, "count local records", err)
		}
	}

	if localCount != result.ServerCount {
		return result, newProtocolError(t, "verify record count",
			fmt.Errorf("%w: local %d, server %d", ErrCountMismatch, localCount, result.ServerCount))
	}

	log.Info().
		Str("revision", result.Revision.String()).
		Int("applied", result.Applied).
		Int("deleted", result.Deleted).
		Int("unchanged", result.Unchanged).
		Int("server_count", result.ServerCount).
		Int("pages", result.Pages).
		Bool("reconciled", result.Reconciled).
		Bool("restreamed", result.Restreamed).
		Int("orphans", result.Orphans).
		Msg("entity type synced")

	return result, nil
}

// drain requests pages from since until the server answers with an empty
// one, committing the watermark after every non-empty page. The final page's
// server count is stored in result.
func (r *syncRunner) drain(ctx context.Context, spec EntitySpec, since models.Revision, result *models.SyncResult) error {
	t := spec.Type()
	log := logger.FromContextOr(ctx, r.logger).With().Str("entity_type", t.String()).Logger()
	first := since

	for pages := 0; ; pages++ {
		if r.maxPages > 0 && pages >= r.maxPages {
			return newProtocolError(t, "stream page", fmt.Errorf("%w: %d pages since %q", ErrPageLimitExceeded, r.maxPages, first))
		}

		pageMax := since
		page, err := r.transport.StreamUpdates(ctx, spec.Endpoint(), since, func(item models.Item) error {
			return r.applyItem(ctx, spec, item, result, &pageMax)
		})
		if err != nil {
			return classifyTransportError(t, "stream page", err)
		}
		result.Pages++

		if page.Items == 0 {
			if !page.HasServerCount {
				return newProtocolError(t, "stream page", ErrMissingServerCount)
			}
			result.ServerCount = page.ServerCount
			return nil
		}

		if !pageMax.After(since) {
			return newProtocolError(t, "stream page", fmt.Errorf("%w: %d items at %q", ErrRevisionNotAdvanced, page.Items, since))
		}

		if err = r.states.SaveState(ctx, models.SyncState{EntityType: t, LastRevision: pageMax}); err != nil {
			return newStoreError(t, "save revision", err)
		}
		log.Debug().
			Str("revision", pageMax.String()).
			Int("items", page.Items).
			Msg("page applied")

		since = pageMax
		result.Revision = since
	}
}

// startRevision returns the watermark to resume from. A forced resync drops
// the stored watermark first, so the resync survives a restart.
func (r *syncRunner) startRevision(ctx context.Context, t models.EntityType, force bool) (models.Revision, error) {
	if force {
		if err := r.states.ResetState(ctx, t); err != nil {
			return "", newStoreError(t, "reset revision", err)
		}
		return "", nil
	}

	state, err := r.states.GetState(ctx, t)
	if err != nil {
		return "", newStoreError(t, "load revision", err)
	}
	return state.LastRevision, nil
}

func (r *syncRunner) applyItem(ctx context.Context, spec EntitySpec, item models.Item, result *models.SyncResult, pageMax *models.Revision) error {
	t := spec.Type()

	switch it := item.(type) {
	case models.Tombstone:
		removed, err := spec.Remove(ctx, it.ID)
		if err != nil {
			return newStoreError(t, "remove", err)
		}
		if removed {
			result.Deleted++
		}

	case models.Record:
		id, err := spec.ExtractID(it)
		if err != nil {
			return newProtocolError(t, "extract id", err)
		}

		stored, found, err := spec.StoredHash(ctx, id)
		if err != nil {
			return newStoreError(t, "load change hash", err)
		}
		if found && stored == spec.ComputeChangeHash(it) {
			result.Unchanged++
			break
		}

		if err = spec.Apply(ctx, it); err != nil {
			if errors.Is(err, ErrDecodeRecord) {
				return newProtocolError(t, "apply", err)
			}
			return newStoreError(t, "apply", err)
		}
		result.Applied++

	default:
		return newProtocolError(t, "apply", fmt.Errorf("unexpected item %T", item))
	}

	*pageMax = models.MaxRevision(*pageMax, spec.ExtractRevision(item))
	return nil
}
