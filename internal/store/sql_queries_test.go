// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/refsync/models"
)

func Test_buildUpsertRecordQuery(t *testing.T) {
	now := time.Now()
	query, args, err := buildUpsertRecordQuery(models.StoredRecord{
		EntityType: models.Employees,
		ID:         "E1",
		ChangeHash: "h",
		Revision:   "7",
		Payload:    []byte(`{}`),
		UpdatedAt:  now,
	})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into entity_records")
	require.Contains(t, q, "on conflict (entity_type, id) do update")
	require.Contains(t, q, "payload     = excluded.payload")
	require.NotContains(t, query, "$1")

	require.Equal(t, []any{"employees", "E1", "h", "7", []byte(`{}`), now}, args)
}

func Test_buildDeleteRecordsQuery(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "single id uses equality",
			ids:       []string{"E1"},
			wantWhere: "WHERE (entity_type = ? AND id = ?)",
			wantArgs:  []any{"employees", "E1"},
		},
		{
			name:      "several ids use IN",
			ids:       []string{"E1", "E2", "E3"},
			wantWhere: "WHERE (entity_type = ? AND id IN (?,?,?))",
			wantArgs:  []any{"employees", "E1", "E2", "E3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildDeleteRecordsQuery(models.Employees, tt.ids...)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(query, "DELETE FROM entity_records"))
			require.Contains(t, query, tt.wantWhere)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_buildSelectRecordsQuery(t *testing.T) {
	query, args, err := buildSelectRecordsQuery(models.Schedules, "")
	require.NoError(t, err)
	require.Equal(t, "SELECT entity_type, id, change_hash, revision, payload, updated_at FROM entity_records WHERE entity_type = ? ORDER BY id", query)
	require.Equal(t, []any{"schedules"}, args)

	query, args, err = buildSelectRecordsQuery(models.Schedules, "S1")
	require.NoError(t, err)
	require.Contains(t, query, "WHERE entity_type = ? AND id = ?")
	require.Equal(t, []any{"schedules", "S1"}, args)
}

func Test_buildStateQueries(t *testing.T) {
	query, args, err := buildSaveStateQuery(models.SyncState{EntityType: models.JobCodes, LastRevision: "4"})
	require.NoError(t, err)
	require.Contains(t, strings.ToLower(query), "insert into sync_state")
	require.Contains(t, strings.ToLower(query), "on conflict (entity_type)")
	require.Equal(t, "job_codes", args[0])
	require.Equal(t, "4", args[1])

	query, args, err = buildResetStateQuery(models.JobCodes)
	require.NoError(t, err)
	require.Equal(t, "DELETE FROM sync_state WHERE entity_type = ?", query)
	require.Equal(t, []any{"job_codes"}, args)
}
