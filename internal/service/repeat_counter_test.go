package service

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/models"
)

func TestRepeatCounter_IncrementAndReset(t *testing.T) {
	var buf bytes.Buffer
	c := NewRepeatCounter(nil, &logger.Logger{Logger: zerolog.New(&buf)})

	assert.Equal(t, 1, c.Increment(models.Schedules))
	assert.Empty(t, buf.String(), "first appearance is normal")

	assert.Equal(t, 2, c.Increment(models.Schedules))
	require.Contains(t, buf.String(), `"repeat_count":2`)
	assert.Contains(t, buf.String(), `"entity_type":"schedules"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	assert.Equal(t, 1, c.Increment(models.JobCodes), "counts are per type")

	c.Reset(models.Schedules)
	assert.Equal(t, 0, c.Count(models.Schedules))
	assert.Equal(t, 1, c.Count(models.JobCodes))
	assert.Equal(t, 1, c.Increment(models.Schedules))
}

func TestRepeatCounter_DiagnosticOnEveryRepeat(t *testing.T) {
	var buf bytes.Buffer
	c := NewRepeatCounter(nil, &logger.Logger{Logger: zerolog.New(&buf)})

	for i := 0; i < 4; i++ {
		c.Increment(models.Employees)
	}

	assert.Equal(t, 3, strings.Count(buf.String(), "sync may be stuck"))
}

func TestRepeatCounter_FeedsHealth(t *testing.T) {
	h := NewHealthTracker(nil)
	c := NewRepeatCounter(h, logger.Nop())

	c.Increment(models.Employees)
	c.Increment(models.Employees)
	assert.False(t, h.Healthy())

	c.Reset(models.Employees)
	assert.True(t, h.Healthy())
}

func TestRepeatCounter_Concurrent(t *testing.T) {
	c := NewRepeatCounter(nil, logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Increment(models.EmployeeInfo)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Count(models.EmployeeInfo))
}
