package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/server"
	"github.com/MKhiriev/refsync/internal/service"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// NewWorkers builds the sync worker polling every interval and, when srv is
// not nil, the diagnostics server worker.
func NewWorkers(job service.ClientSyncJob, interval time.Duration, srv server.Server, logger *logger.Logger) *Workers {
	ws := &Workers{logger: logger}
	ws.workers = append(ws.workers, &syncWorker{job: job, interval: interval})
	if srv != nil {
		ws.workers = append(ws.workers, &serverWorker{srv: srv})
	}
	return ws
}

func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
	if w.logger != nil {
		w.logger.Info().Int("workers", len(w.workers)).Msg("workers started")
	}
}

// Stop stops the workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
	if w.logger != nil {
		w.logger.Info().Msg("workers stopped")
	}
}

type syncWorker struct {
	job      service.ClientSyncJob
	interval time.Duration
}

func (s *syncWorker) Run(ctx context.Context) {
	s.job.Start(ctx, s.interval)
}

func (s *syncWorker) Stop() {
	s.job.Stop()
}

type serverWorker struct {
	srv  server.Server
	done chan struct{}
}

func (s *serverWorker) Run(context.Context) {
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.srv.RunServer()
	}()
}

func (s *serverWorker) Stop() {
	s.srv.Shutdown()
	if s.done != nil {
		<-s.done
	}
}
