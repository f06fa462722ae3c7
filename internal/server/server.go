package server

import (
	"github.com/MKhiriev/refsync/internal/config"
	"github.com/MKhiriev/refsync/internal/handler"
	"github.com/MKhiriev/refsync/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.ClientHealth, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := new(server)

	if cfg.HTTPAddress != "" && handlers != nil && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}

	if servers.httpServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

// RunServer blocks until the HTTP server stops.
func (s *server) RunServer() {
	s.logger.Info().Str("address", s.httpServer.server.Addr).Msg("Launching HTTP server")
	s.httpServer.RunServer()
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
	s.logger.Info().Msg("server Shutdown gracefully")
}
