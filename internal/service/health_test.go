package service

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/refsync/models"
)

func TestHealthTracker_SnapshotCoversEveryType(t *testing.T) {
	h := NewHealthTracker(nil)

	snap := h.Snapshot()
	require.Len(t, snap, len(models.AllEntityTypes()))
	for i, typ := range models.AllEntityTypes() {
		assert.Equal(t, typ, snap[i].EntityType)
	}
	assert.True(t, h.Healthy())
}

func TestHealthTracker_SuccessAndFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHealthTracker(reg)

	err := &SyncError{Kind: KindNetworkFailure, EntityType: models.JobCodes, Op: "stream page", Err: errors.New("reset")}
	h.RecordFailure(models.JobCodes, err, time.Second)

	assert.False(t, h.Healthy())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.runs.WithLabelValues("job_codes", "network_failure")))

	h.RecordSuccess(models.JobCodes, models.SyncResult{EntityType: models.JobCodes, Applied: 3, Deleted: 1, Orphans: 2}, time.Second)

	assert.True(t, h.Healthy(), "a later success clears the error")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.runs.WithLabelValues("job_codes", outcomeOK)))
	assert.Equal(t, 3.0, testutil.ToFloat64(h.metrics.records.WithLabelValues("job_codes", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.records.WithLabelValues("job_codes", "deleted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.records.WithLabelValues("job_codes", "orphaned")))
	assert.Positive(t, testutil.ToFloat64(h.metrics.lastSuccess.WithLabelValues("job_codes")))

	var entry models.TypeHealth
	for _, e := range h.Snapshot() {
		if e.EntityType == models.JobCodes {
			entry = e
		}
	}
	require.NotNil(t, entry.LastResult)
	assert.Equal(t, 3, entry.LastResult.Applied)
	assert.Empty(t, entry.LastError)
	assert.Nil(t, entry.LastErrorAt)
}

func TestHealthTracker_RepeatGauges(t *testing.T) {
	h := NewHealthTracker(prometheus.NewRegistry())

	h.RecordRepeat(models.Schedules, 1)
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.stuck.WithLabelValues("schedules")))

	h.RecordRepeat(models.Schedules, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.stuck.WithLabelValues("schedules")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.repeatCount.WithLabelValues("schedules")))
	assert.False(t, h.Healthy())

	h.RecordRepeat(models.Schedules, 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.stuck.WithLabelValues("schedules")))
	assert.True(t, h.Healthy())
}

func TestHealthTracker_RegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHealthTracker(reg)
	h.RecordRepeat(models.Employees, 1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "refsync_sync_repeat_count")
	assert.Contains(t, names, "refsync_sync_stuck")

	assert.Panics(t, func() { NewHealthTracker(reg) }, "metrics are registered once per registry")
}
