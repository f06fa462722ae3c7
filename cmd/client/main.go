package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/client"
	"github.com/MKhiriev/refsync/internal/config"
	"github.com/MKhiriev/refsync/internal/handler"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/server"
	"github.com/MKhiriev/refsync/internal/service"
	"github.com/MKhiriev/refsync/internal/store"
	"github.com/MKhiriev/refsync/internal/workers"
	"github.com/MKhiriev/refsync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	log := logger.NewClientLogger("refsync-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = build.BuildVersion()
	}

	log.Debug().
		Str("terminal_id", cfg.App.TerminalID).
		Str("server", cfg.Adapter.HTTPAddress).
		Str("health", cfg.Health.HTTPAddress).
		Dur("sync_interval", cfg.Workers.SyncInterval).
		Msg("received configs")

	transport, err := adapter.NewHTTPTransport(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server transport")
	}

	storages, err := store.NewClientStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	services := service.NewClientServices(storages, transport, cfg, build, registry, log)

	var srv server.Server
	handlers, err := handler.NewHandlers(services, registry, cfg.Health, log)
	switch {
	case errors.Is(err, handler.ErrNoHandlersAreCreated):
		log.Info().Msg("health endpoint disabled")
	case err != nil:
		log.Fatal().Err(err).Msg("create handlers")
	default:
		if srv, err = server.NewServer(handlers, cfg.Health, log); err != nil {
			log.Fatal().Err(err).Msg("create health server")
		}
	}

	app, err := client.NewApp(transport, workers.NewWorkers(services.SyncJob, cfg.Workers.SyncInterval, srv, log), log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
