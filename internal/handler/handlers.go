package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/refsync/internal/config"
	"github.com/MKhiriev/refsync/internal/handler/http"
	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers creates the handlers of every configured endpoint. It fails
// with [ErrNoHandlersAreCreated] when no endpoint address is configured.
func NewHandlers(services *service.ClientServices, gatherer prometheus.Gatherer, cfg config.ClientHealth, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, gatherer, logger)
	}

	if handlers.HTTP == nil {
		return nil, ErrNoHandlersAreCreated
	}

	return handlers, nil
}
