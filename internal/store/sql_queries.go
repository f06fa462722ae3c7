// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/refsync/models"
)

const (
	tableEntityRecords = "entity_records"
	tableSyncState     = "sync_state"

	upsertRecordSuffix = `ON CONFLICT (entity_type, id) DO UPDATE SET
		change_hash = excluded.change_hash,
		revision    = excluded.revision,
		payload     = excluded.payload,
		updated_at  = excluded.updated_at`

	upsertStateSuffix = `ON CONFLICT (entity_type) DO UPDATE SET
		last_revision = excluded.last_revision,
		updated_at    = excluded.updated_at`

	// deleteChunkSize keeps IN lists well below SQLite's bound-variable limit.
	deleteChunkSize = 500
)

var recordColumns = []string{"entity_type", "id", "change_hash", "revision", "payload", "updated_at"}

// builder produces SQLite-style "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildUpsertRecordQuery(rec models.StoredRecord) (string, []any, error) {
	return builder.Insert(tableEntityRecords).
		Columns(recordColumns...).
		Values(string(rec.EntityType), rec.ID, rec.ChangeHash, string(rec.Revision), rec.Payload, rec.UpdatedAt).
		Suffix(upsertRecordSuffix).
		ToSql()
}

func buildDeleteRecordsQuery(entityType models.EntityType, ids ...string) (string, []any, error) {
	where := sq.And{sq.Eq{"entity_type": string(entityType)}}
	if len(ids) == 1 {
		where = append(where, sq.Eq{"id": ids[0]})
	} else {
		where = append(where, sq.Eq{"id": ids})
	}
	return builder.Delete(tableEntityRecords).Where(where).ToSql()
}

func buildGetHashQuery(entityType models.EntityType, id string) (string, []any, error) {
	return builder.Select("change_hash").
		From(tableEntityRecords).
		Where(sq.And{sq.Eq{"entity_type": string(entityType)}, sq.Eq{"id": id}}).
		ToSql()
}

// buildSelectRecordsQuery selects full rows of entityType, narrowed to a
// single id when one is given.
func buildSelectRecordsQuery(entityType models.EntityType, id string) (string, []any, error) {
	q := builder.Select(recordColumns...).
		From(tableEntityRecords).
		Where(sq.Eq{"entity_type": string(entityType)})
	if id != "" {
		q = q.Where(sq.Eq{"id": id})
	}
	return q.OrderBy("id").ToSql()
}

func buildListIDsQuery(entityType models.EntityType) (string, []any, error) {
	return builder.Select("id").
		From(tableEntityRecords).
		Where(sq.Eq{"entity_type": string(entityType)}).
		ToSql()
}

func buildCountQuery(entityType models.EntityType) (string, []any, error) {
	return builder.Select("COUNT(*)").
		From(tableEntityRecords).
		Where(sq.Eq{"entity_type": string(entityType)}).
		ToSql()
}

func buildGetStateQuery(entityType models.EntityType) (string, []any, error) {
	return builder.Select("entity_type", "last_revision", "updated_at").
		From(tableSyncState).
		Where(sq.Eq{"entity_type": string(entityType)}).
		ToSql()
}

func buildListStatesQuery() (string, []any, error) {
	return builder.Select("entity_type", "last_revision", "updated_at").
		From(tableSyncState).
		OrderBy("entity_type").
		ToSql()
}

func buildSaveStateQuery(state models.SyncState) (string, []any, error) {
	return builder.Insert(tableSyncState).
		Columns("entity_type", "last_revision", "updated_at").
		Values(string(state.EntityType), string(state.LastRevision), state.UpdatedAt).
		Suffix(upsertStateSuffix).
		ToSql()
}

func buildResetStateQuery(entityType models.EntityType) (string, []any, error) {
	return builder.Delete(tableSyncState).
		Where(sq.Eq{"entity_type": string(entityType)}).
		ToSql()
}
