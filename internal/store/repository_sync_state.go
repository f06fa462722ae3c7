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

// syncStateRepository keeps one revision watermark per entity type in the
// "sync_state" table.
type syncStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncStateRepository constructs a [SyncStateRepository] backed by db.
func NewSyncStateRepository(db *DB, logger *logger.Logger) SyncStateRepository {
	return &syncStateRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *syncStateRepository) GetState(ctx context.Context, entityType models.EntityType) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetStateQuery(entityType)
	if err != nil {
		return models.SyncState{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		state    models.SyncState
		rawType  string
		revision string
	)
	err = s.QueryRowContext(ctx, query, args...).Scan(&rawType, &revision, &state.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncState{EntityType: entityType}, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.GetState").
			Str("entity_type", entityType.String()).
			Msg("failed to query sync state")
		return models.SyncState{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	state.EntityType = models.EntityType(rawType)
	state.LastRevision = models.Revision(revision)
	return state, nil
}

func (s *syncStateRepository) SaveState(ctx context.Context, state models.SyncState) error {
	log := logger.FromContext(ctx)

	if state.EntityType == "" {
		return ErrEmptyEntityType
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}

	query, args, err := buildSaveStateQuery(state)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.execWithRetry(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.SaveState").
			Str("entity_type", state.EntityType.String()).
			Str("revision", state.LastRevision.String()).
			Msg("failed to save sync state")
		return err
	}

	return nil
}

func (s *syncStateRepository) ListStates(ctx context.Context) ([]models.SyncState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListStatesQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.ListStates").Msg("failed to query sync states")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	states := make([]models.SyncState, 0, len(models.AllEntityTypes()))
	for rows.Next() {
		var (
			state    models.SyncState
			rawType  string
			revision string
		)
		if err = rows.Scan(&rawType, &revision, &state.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		state.EntityType = models.EntityType(rawType)
		state.LastRevision = models.Revision(revision)
		states = append(states, state)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return states, nil
}

func (s *syncStateRepository) ResetState(ctx context.Context, entityType models.EntityType) error {
	log := logger.FromContext(ctx)

	query, args, err := buildResetStateQuery(entityType)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.execWithRetry(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.ResetState").
			Str("entity_type", entityType.String()).
			Msg("failed to reset sync state")
		return err
	}

	log.Info().Str("entity_type", entityType.String()).Msg("sync state reset")
	return nil
}
