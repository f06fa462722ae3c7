// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/refsync/models"
)

const (
	metricsNamespace = "refsync"
	metricsSubsystem = "sync"

	outcomeOK = "ok"
)

type syncMetrics struct {
	runs        *prometheus.CounterVec
	records     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	repeatCount *prometheus.GaugeVec
	stuck       *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

func newSyncMetrics(reg prometheus.Registerer) *syncMetrics {
	m := &syncMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "runs_total",
			Help:      "Sync runs per entity type by outcome (ok or error kind).",
		}, []string{"entity_type", "outcome"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "records_total",
			Help:      "Records processed per entity type by action.",
		}, []string{"entity_type", "action"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "duration_seconds",
			Help:      "Duration of one entity type sync.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"entity_type"}),
		repeatCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "repeat_count",
			Help:      "Consecutive cycles the change manifest listed the entity type.",
		}, []string{"entity_type"}),
		stuck: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "stuck",
			Help:      "1 while the entity type keeps reappearing in the manifest.",
		}, []string{"entity_type"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sync of the entity type.",
		}, []string{"entity_type"}),
	}

	if reg != nil {
		reg.MustRegister(m.runs, m.records, m.duration, m.repeatCount, m.stuck, m.lastSuccess)
	}
	return m
}

// HealthTracker keeps the per-type health signal: repeat counts, the last
// error and the last successful result. It mirrors everything into
// Prometheus metrics.
type HealthTracker struct {
	mu    sync.RWMutex
	types map[models.EntityType]*models.TypeHealth

	metrics *syncMetrics
	now     func() time.Time
}

// NewHealthTracker constructs a [HealthTracker] registering its metrics with
// reg. A nil reg keeps the metrics unregistered.
func NewHealthTracker(reg prometheus.Registerer) *HealthTracker {
	h := &HealthTracker{
		types:   make(map[models.EntityType]*models.TypeHealth),
		metrics: newSyncMetrics(reg),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, t := range models.AllEntityTypes() {
		h.types[t] = &models.TypeHealth{EntityType: t}
	}
	return h
}

func (h *HealthTracker) entry(t models.EntityType) *models.TypeHealth {
	e, ok := h.types[t]
	if !ok {
		e = &models.TypeHealth{EntityType: t}
		h.types[t] = e
	}
	return e
}

// RecordRepeat stores the repeat count of t.
func (h *HealthTracker) RecordRepeat(t models.EntityType, count int) {
	h.mu.Lock()
	e := h.entry(t)
	e.RepeatCount = count
	e.Stuck = count > stuckThreshold
	stuck := e.Stuck
	h.mu.Unlock()

	h.metrics.repeatCount.WithLabelValues(t.String()).Set(float64(count))
	if stuck {
		h.metrics.stuck.WithLabelValues(t.String()).Set(1)
	} else {
		h.metrics.stuck.WithLabelValues(t.String()).Set(0)
	}
}

// RecordSuccess stores the result of a successful sync of t and clears its
// last error.
func (h *HealthTracker) RecordSuccess(t models.EntityType, res models.SyncResult, took time.Duration) {
	now := h.now()

	h.mu.Lock()
	e := h.entry(t)
	e.LastSuccess = &now
	e.LastResult = &res
	e.LastError = ""
	e.LastErrorAt = nil
	h.mu.Unlock()

	label := t.String()
	h.metrics.runs.WithLabelValues(label, outcomeOK).Inc()
	h.metrics.duration.WithLabelValues(label).Observe(took.Seconds())
	h.metrics.lastSuccess.WithLabelValues(label).Set(float64(now.Unix()))
	h.metrics.records.WithLabelValues(label, "applied").Add(float64(res.Applied))
	h.metrics.records.WithLabelValues(label, "deleted").Add(float64(res.Deleted))
	h.metrics.records.WithLabelValues(label, "unchanged").Add(float64(res.Unchanged))
	h.metrics.records.WithLabelValues(label, "orphaned").Add(float64(res.Orphans))
}

// RecordFailure stores err as the last error of t.
func (h *HealthTracker) RecordFailure(t models.EntityType, err error, took time.Duration) {
	now := h.now()

	h.mu.Lock()
	e := h.entry(t)
	e.LastError = err.Error()
	e.LastErrorAt = &now
	h.mu.Unlock()

	h.metrics.runs.WithLabelValues(t.String(), KindOf(err).String()).Inc()
	h.metrics.duration.WithLabelValues(t.String()).Observe(took.Seconds())
}

// Snapshot returns a copy of the health of every type in cycle order.
func (h *HealthTracker) Snapshot() []models.TypeHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.TypeHealth, 0, len(h.types))
	for _, t := range models.AllEntityTypes() {
		if e, ok := h.types[t]; ok {
			out = append(out, *e)
		}
	}
	return out
}

// Healthy reports whether no type is stuck or failing.
func (h *HealthTracker) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, e := range h.types {
		if e.Stuck || e.LastError != "" {
			return false
		}
	}
	return true
}
