package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/models"
)

// entityRepository is the SQLite-backed implementation of
// [EntityRepository]. All entity types share the "entity_records" table and
// are told apart by its entity_type column.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that database interactions carry the cycle id of
// the sync that issued them.
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] backed by db.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

// Upsert stores rec in a single statement, so a crash leaves either the old
// or the new version of the record, never a mix.
func (r *entityRepository) Upsert(ctx context.Context, rec models.StoredRecord) error {
	log := logger.FromContext(ctx)

	if rec.EntityType == "" {
		return ErrEmptyEntityType
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	query, args, err := buildUpsertRecordQuery(rec)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.execWithRetry(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Upsert").
			Str("entity_type", rec.EntityType.String()).
			Str("id", rec.ID).
			Msg("failed to upsert record")
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s/%s", ErrRecordNotSaved, rec.EntityType, rec.ID)
	}

	return nil
}

// Delete removes a single record. A missing record yields (false, nil).
func (r *entityRepository) Delete(ctx context.Context, entityType models.EntityType, id string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteRecordsQuery(entityType, id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.execWithRetry(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Delete").
			Str("entity_type", entityType.String()).
			Str("id", id).
			Msg("failed to delete record")
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affected > 0, nil
}

// DeleteMany removes ids in chunks inside one transaction.
func (r *entityRepository) DeleteMany(ctx context.Context, entityType models.EntityType, ids []string) (int, error) {
	log := logger.FromContext(ctx)

	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.DeleteMany").Msg("failed to begin transaction")
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	total := 0
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(ids))

		query, args, err := buildDeleteRecordsQuery(entityType, ids[start:end]...)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).
				Str("func", "entityRepository.DeleteMany").
				Str("entity_type", entityType.String()).
				Int("chunk_start", start).
				Msg("failed to delete records")
			return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		total += int(affected)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "entityRepository.DeleteMany").Msg("failed to commit transaction")
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return total, nil
}

// GetHash returns the stored change hash of one record.
func (r *entityRepository) GetHash(ctx context.Context, entityType models.EntityType, id string) (string, bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetHashQuery(entityType, id)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var hash string
	err = r.QueryRowContext(ctx, query, args...).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.GetHash").
			Str("entity_type", entityType.String()).
			Str("id", id).
			Msg("failed to query change hash")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return hash, true, nil
}

// Get returns one record or [ErrRecordNotFound].
func (r *entityRepository) Get(ctx context.Context, entityType models.EntityType, id string) (models.StoredRecord, error) {
	if id == "" {
		return models.StoredRecord{}, ErrRecordNotFound
	}

	records, err := r.selectRecords(ctx, "entityRepository.Get", entityType, id)
	if err != nil {
		return models.StoredRecord{}, err
	}
	if len(records) == 0 {
		return models.StoredRecord{}, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, entityType, id)
	}

	return records[0], nil
}

// List returns every record of entityType ordered by id.
func (r *entityRepository) List(ctx context.Context, entityType models.EntityType) ([]models.StoredRecord, error) {
	return r.selectRecords(ctx, "entityRepository.List", entityType, "")
}

func (r *entityRepository) selectRecords(ctx context.Context, fn string, entityType models.EntityType, id string) ([]models.StoredRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectRecordsQuery(entityType, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", fn).
			Str("entity_type", entityType.String()).
			Msg("failed to execute query for records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.StoredRecord, 0)
	for rows.Next() {
		var (
			rec         models.StoredRecord
			recType     string
			recRevision string
		)
		if err = rows.Scan(&recType, &rec.ID, &rec.ChangeHash, &recRevision, &rec.Payload, &rec.UpdatedAt); err != nil {
			log.Err(err).Str("func", fn).Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		rec.EntityType = models.EntityType(recType)
		rec.Revision = models.Revision(recRevision)
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

// ListIDs returns the set of stored ids of entityType.
func (r *entityRepository) ListIDs(ctx context.Context, entityType models.EntityType) (map[string]struct{}, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListIDsQuery(entityType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.ListIDs").
			Str("entity_type", entityType.String()).
			Msg("failed to execute query for ids")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ids, nil
}

// Count returns the number of stored records of entityType.
func (r *entityRepository) Count(ctx context.Context, entityType models.EntityType) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountQuery(entityType)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	if err = r.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Err(err).
			Str("func", "entityRepository.Count").
			Str("entity_type", entityType.String()).
			Msg("failed to count records")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return n, nil
}
