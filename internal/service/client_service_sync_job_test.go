// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/mock"
	"github.com/MKhiriev/refsync/models"
)

// spyOrchestrator counts RunCycle calls.
type spyOrchestrator struct {
	cycles atomic.Int64
	err    error
}

func (s *spyOrchestrator) RunCycle(_ context.Context, _ models.Manifest) (models.CycleReport, error) {
	s.cycles.Add(1)
	return models.CycleReport{CycleID: "c"}, s.err
}

func (s *spyOrchestrator) Resync(_ context.Context, _ []models.EntityType, _ bool) (models.CycleReport, error) {
	return models.CycleReport{}, nil
}

func newSpyJob() (ClientSyncJob, *spyOrchestrator) {
	spy := &spyOrchestrator{}
	tr := newFakeTransport()
	tr.manifest = models.NewManifest(models.Employees)
	return NewClientSyncJob(tr, spy, logger.Nop()), spy
}

// ── NewClientSyncJob ─────────────────────────────────────────────────────────

func TestNewClientSyncJob_ReturnsInterface(t *testing.T) {
	job, _ := newSpyJob()
	require.NotNil(t, job)

	var _ ClientSyncJob = job
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestClientSyncJob_Start_PollsOnEveryTick(t *testing.T) {
	job, spy := newSpyJob()

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.cycles.Load()
	assert.GreaterOrEqual(t, got, int64(3), "RunCycle called %d times", got)
}

func TestClientSyncJob_Start_PollsImmediately(t *testing.T) {
	job, spy := newSpyJob()

	job.Start(context.Background(), time.Hour)
	defer job.Stop()

	assert.Eventually(t, func() bool { return spy.cycles.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestClientSyncJob_Stop_StopsGoroutine(t *testing.T) {
	job, spy := newSpyJob()

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	job.Stop()

	after := spy.cycles.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, spy.cycles.Load(), "no polls after Stop")
}

func TestClientSyncJob_Stop_WithoutStart(t *testing.T) {
	job, _ := newSpyJob()

	assert.NotPanics(t, job.Stop)
}

func TestClientSyncJob_Start_ContextCancelStops(t *testing.T) {
	job, spy := newSpyJob()
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	cancel()
	time.Sleep(15 * time.Millisecond)

	after := spy.cycles.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, spy.cycles.Load())
	job.Stop()
}

func TestClientSyncJob_Start_RestartsRunningJob(t *testing.T) {
	job, spy := newSpyJob()

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), time.Hour)
	defer job.Stop()

	assert.Eventually(t, func() bool { return spy.cycles.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(2), spy.cycles.Load(), "one immediate poll per start")
}

func TestClientSyncJob_Start_DefaultInterval(t *testing.T) {
	job, spy := newSpyJob()

	job.Start(context.Background(), 0)
	defer job.Stop()

	assert.Eventually(t, func() bool { return spy.cycles.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestClientSyncJob_ErrorsDoNotStopJob(t *testing.T) {
	job, spy := newSpyJob()
	spy.err = fmt.Errorf("%w", ErrCycleLock)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(45 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.cycles.Load(), int64(2))
}

// ── Trigger ──────────────────────────────────────────────────────────────────

func TestClientSyncJob_Trigger_PollsNow(t *testing.T) {
	job, spy := newSpyJob()

	job.Start(context.Background(), time.Hour)
	defer job.Stop()
	require.Eventually(t, func() bool { return spy.cycles.Load() == 1 }, time.Second, 5*time.Millisecond)

	job.Trigger()
	assert.Eventually(t, func() bool { return spy.cycles.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestClientSyncJob_Trigger_Coalesces(t *testing.T) {
	job, spy := newSpyJob()

	// nobody is listening yet: the first trigger is buffered, the rest dropped
	job.Trigger()
	job.Trigger()
	job.Trigger()

	job.Start(context.Background(), time.Hour)
	defer job.Stop()

	assert.Eventually(t, func() bool { return spy.cycles.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(2), spy.cycles.Load())
}

// ── RunOnce ──────────────────────────────────────────────────────────────────

func TestRunOnce(t *testing.T) {
	manifest := models.NewManifest(models.Schedules)
	unauthorized := fmt.Errorf("%w: http 401", adapter.ErrUnauthorized)

	tests := []struct {
		name    string
		setup   func(tr *mock.MockTransport, orch *mock.MockSyncOrchestrator)
		wantErr bool
		kind    ErrorKind
	}{
		{
			name: "manifest passed to the orchestrator",
			setup: func(tr *mock.MockTransport, orch *mock.MockSyncOrchestrator) {
				tr.EXPECT().GetManifest(gomock.Any()).Return(manifest, nil)
				orch.EXPECT().RunCycle(gomock.Any(), manifest).Return(models.CycleReport{CycleID: "x"}, nil)
			},
		},
		{
			name: "re-registers once on unauthorized",
			setup: func(tr *mock.MockTransport, orch *mock.MockSyncOrchestrator) {
				gomock.InOrder(
					tr.EXPECT().GetManifest(gomock.Any()).Return(nil, unauthorized),
					tr.EXPECT().Register(gomock.Any()).Return(nil),
					tr.EXPECT().GetManifest(gomock.Any()).Return(manifest, nil),
					orch.EXPECT().RunCycle(gomock.Any(), manifest).Return(models.CycleReport{}, nil),
				)
			},
		},
		{
			name: "registration rejected",
			setup: func(tr *mock.MockTransport, orch *mock.MockSyncOrchestrator) {
				tr.EXPECT().GetManifest(gomock.Any()).Return(nil, unauthorized)
				tr.EXPECT().Register(gomock.Any()).Return(unauthorized)
			},
			wantErr: true,
			kind:    KindUnauthorized,
		},
		{
			name: "still unauthorized after registration",
			setup: func(tr *mock.MockTransport, orch *mock.MockSyncOrchestrator) {
				tr.EXPECT().GetManifest(gomock.Any()).Return(nil, unauthorized).Times(2)
				tr.EXPECT().Register(gomock.Any()).Return(nil)
			},
			wantErr: true,
			kind:    KindUnauthorized,
		},
		{
			name: "server unreachable",
			setup: func(tr *mock.MockTransport, orch *mock.MockSyncOrchestrator) {
				tr.EXPECT().GetManifest(gomock.Any()).Return(nil, fmt.Errorf("%w: dial tcp: connection refused", adapter.ErrNetworkFailure))
			},
			wantErr: true,
			kind:    KindNetworkFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tr := mock.NewMockTransport(ctrl)
			orch := mock.NewMockSyncOrchestrator(ctrl)
			tt.setup(tr, orch)

			_, err := RunOnce(context.Background(), tr, orch)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}
