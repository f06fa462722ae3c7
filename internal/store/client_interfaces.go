package store

import (
	"context"

	"github.com/MKhiriev/refsync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// EntityRepository is the local record store. Every method is scoped to one
// entity type; ids are unique only within their type.
type EntityRepository interface {
	// Upsert inserts rec or replaces the stored record with the same entity
	// type and id.
	Upsert(ctx context.Context, rec models.StoredRecord) error
	// Delete removes one record. Deleting an absent record is not an error;
	// the returned bool reports whether a row was removed.
	Delete(ctx context.Context, entityType models.EntityType, id string) (bool, error)
	// DeleteMany removes the given ids in one transaction and returns how many
	// rows were removed.
	DeleteMany(ctx context.Context, entityType models.EntityType, ids []string) (int, error)
	// GetHash returns the stored change hash of one record. The bool is false
	// when the record does not exist.
	GetHash(ctx context.Context, entityType models.EntityType, id string) (string, bool, error)
	// Get returns one record or [ErrRecordNotFound].
	Get(ctx context.Context, entityType models.EntityType, id string) (models.StoredRecord, error)
	// List returns every record of the type ordered by id.
	List(ctx context.Context, entityType models.EntityType) ([]models.StoredRecord, error)
	// ListIDs returns the ids of every stored record of the type.
	ListIDs(ctx context.Context, entityType models.EntityType) (map[string]struct{}, error)
	// Count returns the number of stored records of the type.
	Count(ctx context.Context, entityType models.EntityType) (int, error)
}

// SyncStateRepository persists the per-type revision watermark. Writes are
// durable once the call returns.
type SyncStateRepository interface {
	// GetState returns the watermark of entityType. A type that was never
	// synced yields a state with an empty revision.
	GetState(ctx context.Context, entityType models.EntityType) (models.SyncState, error)
	// SaveState stores state, replacing any previous watermark.
	SaveState(ctx context.Context, state models.SyncState) error
	// ListStates returns every stored watermark ordered by entity type.
	ListStates(ctx context.Context) ([]models.SyncState, error)
	// ResetState drops the watermark so the next sync starts from scratch.
	ResetState(ctx context.Context, entityType models.EntityType) error
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
