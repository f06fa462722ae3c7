package service

import (
	"context"
	"time"

	"github.com/MKhiriev/refsync/models"
)

//go:generate mockgen -destination=../mock/service_mock.go -package=mock github.com/MKhiriev/refsync/internal/service ClientSyncJob,StatusService,SyncOrchestrator

// EntitySpec is the per-type configuration the sync services work through.
// It holds no sync logic of its own: it knows where a type lives on the
// server, how to identify and hash its records, and how to read and write
// them in the local store.
type EntitySpec interface {
	Type() models.EntityType
	// Endpoint is the update-stream path of the type.
	Endpoint() string
	// IDEndpoint is the path serving the complete remote id set.
	IDEndpoint() string

	ExtractID(rec models.Record) (string, error)
	ExtractRevision(item models.Item) models.Revision
	// ComputeChangeHash derives a stable, field-order independent hash of
	// the record payload.
	ComputeChangeHash(rec models.Record) string

	// StoredHash returns the change hash stored for id; the bool is false
	// when id is not stored locally.
	StoredHash(ctx context.Context, id string) (string, bool, error)
	// Apply upserts rec. Applying the same record twice is harmless.
	Apply(ctx context.Context, rec models.Record) error
	// Remove deletes id; an absent id is not an error.
	Remove(ctx context.Context, id string) (bool, error)
	// RemoveMany deletes ids in one batch and returns how many existed.
	RemoveMany(ctx context.Context, ids []string) (int, error)

	CurrentLocalIDs(ctx context.Context) (map[string]struct{}, error)
	LocalCount(ctx context.Context) (int, error)
}

// SyncRunner pulls the changes of one entity type and applies them locally.
type SyncRunner interface {
	// Sync streams update pages starting at the stored watermark (or from
	// scratch when forceFullResync is set) until the server returns an empty
	// page, advancing the watermark after every page. A count mismatch
	// afterwards triggers reconciliation.
	Sync(ctx context.Context, spec EntitySpec, forceFullResync bool) (models.SyncResult, error)
}

// Reconciler removes local records the server no longer has.
type Reconciler interface {
	// Reconcile fetches the remote id set of spec and deletes every local
	// record missing from it. It returns the number of records removed.
	Reconcile(ctx context.Context, spec EntitySpec) (int, error)
}

// SyncOrchestrator runs sync cycles over all registered entity types.
type SyncOrchestrator interface {
	// RunCycle syncs every type flagged in manifest, in registration order,
	// and updates the repeat counters of all types.
	RunCycle(ctx context.Context, manifest models.Manifest) (models.CycleReport, error)
	// Resync syncs the given types (all when empty) regardless of any
	// manifest. With force set the stored watermarks are ignored.
	Resync(ctx context.Context, types []models.EntityType, force bool) (models.CycleReport, error)
}

// ClientSyncJob defines the contract for a background worker that polls the
// server's change manifest and runs a sync cycle.
type ClientSyncJob interface {
	// Start launches the background goroutine. It polls every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Trigger asks the running job to poll now, as when the server signals
	// that changes are available. Triggers arriving while a poll is pending
	// are coalesced.
	Trigger()

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
