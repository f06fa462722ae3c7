package service

import (
	"context"
	"slices"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/logger"
)

type reconciler struct {
	transport adapter.Transport
	logger    *logger.Logger
}

// NewReconciler constructs a [Reconciler] that diffs the local id set of a
// type against the full remote id set served by the transport.
func NewReconciler(transport adapter.Transport, logger *logger.Logger) Reconciler {
	return &reconciler{
		transport: transport,
		logger:    logger,
	}
}

// Reconcile implements [Reconciler]. Ids present remotely but missing locally
// are only reported; the runner restreams the type to fetch them.
func (r *reconciler) Reconcile(ctx context.Context, spec EntitySpec) (int, error) {
	t := spec.Type()
	log := logger.FromContextOr(ctx, r.logger).With().Str("entity_type", t.String()).Logger()

	remote := make(map[string]struct{})
	err := r.transport.StreamIDs(ctx, spec.IDEndpoint(), func(id string) error {
		remote[id] = struct{}{}
		return nil
	})
	if err != nil {
		return 0, classifyTransportError(t, "stream ids", err)
	}

	local, err := spec.CurrentLocalIDs(ctx)
	if err != nil {
		return 0, newStoreError(t, "list local ids", err)
	}

	orphans := make([]string, 0)
	for id := range local {
		if _, ok := remote[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	slices.Sort(orphans)

	missing := 0
	for id := range remote {
		if _, ok := local[id]; !ok {
			missing++
		}
	}
	if missing > 0 {
		log.Warn().
			Int("missing", missing).
			Msg("server holds records absent locally")
	}

	if len(orphans) == 0 {
		log.Debug().Int("remote_ids", len(remote)).Msg("no orphaned records")
		return 0, nil
	}

	removed, err := spec.RemoveMany(ctx, orphans)
	if err != nil {
		return 0, newStoreError(t, "remove orphans", err)
	}

	log.Info().
		Int("orphans", len(orphans)).
		Int("removed", removed).
		Int("remote_ids", len(remote)).
		Msg("orphaned records removed")

	return removed, nil
}
