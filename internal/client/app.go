package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/logger"
)

const registerTimeout = 30 * time.Second

var errNilDependency = errors.New("client app dependency is nil")

type App struct {
	transport adapter.Transport
	workers   Runner
	logger    *logger.Logger
}

func NewApp(transport adapter.Transport, workers Runner, logger *logger.Logger) (*App, error) {
	if transport == nil || workers == nil {
		return nil, errNilDependency
	}
	return &App{transport: transport, workers: workers, logger: logger}, nil
}

// Run registers the terminal, starts the workers and blocks until SIGTERM,
// SIGINT or SIGQUIT arrives. The workers are stopped before Run returns.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	if err := a.register(ctx); err != nil {
		return err
	}

	a.workers.Run(ctx)
	a.logger.Info().Msg("terminal sync agent started")

	<-ctx.Done()

	a.logger.Info().Msg("stop signal received, shutting down")
	a.workers.Stop()
	a.logger.Info().Msg("terminal sync agent stopped gracefully")

	return nil
}

// register obtains a bearer token before the first poll. Only an explicit
// rejection is fatal; while the server is unreachable the sync job keeps
// retrying and re-registers once it answers.
func (a *App) register(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, registerTimeout)
	defer cancel()

	err := a.transport.Register(ctx)
	switch {
	case err == nil:
		a.logger.Info().Msg("terminal registered")
		return nil
	case errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("terminal registration rejected: %w", err)
	default:
		a.logger.Warn().Err(err).Msg("terminal registration failed, continuing offline")
		return nil
	}
}
