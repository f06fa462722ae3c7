package service

import (
	"sync"

	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/models"
)

// stuckThreshold is the repeat count above which a type is reported as stuck.
const stuckThreshold = 1

// RepeatCounter counts, per entity type, how many consecutive cycles the
// change manifest has listed the type. A type the server keeps flagging
// after it was synced points at a sync that never converges.
//
// Counts live for the lifetime of the process only.
type RepeatCounter struct {
	mu     sync.Mutex
	counts map[models.EntityType]int

	health *HealthTracker
	logger *logger.Logger
}

// NewRepeatCounter constructs a [RepeatCounter]. health may be nil.
func NewRepeatCounter(health *HealthTracker, logger *logger.Logger) *RepeatCounter {
	return &RepeatCounter{
		counts: make(map[models.EntityType]int),
		health: health,
		logger: logger,
	}
}

// Increment records one more appearance of t and returns the new count. Once
// the count exceeds one a stuck-sync diagnostic is logged.
func (c *RepeatCounter) Increment(t models.EntityType) int {
	c.mu.Lock()
	c.counts[t]++
	count := c.counts[t]
	c.mu.Unlock()

	if count > stuckThreshold {
		c.logger.Warn().
			Str("entity_type", t.String()).
			Int("repeat_count", count).
			Msg("entity type keeps reappearing in the change manifest, sync may be stuck")
	}
	if c.health != nil {
		c.health.RecordRepeat(t, count)
	}

	return count
}

// Reset clears the count of t.
func (c *RepeatCounter) Reset(t models.EntityType) {
	c.mu.Lock()
	_, existed := c.counts[t]
	delete(c.counts, t)
	c.mu.Unlock()

	if existed && c.health != nil {
		c.health.RecordRepeat(t, 0)
	}
}

// Count returns the current count of t.
func (c *RepeatCounter) Count(t models.EntityType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[t]
}
