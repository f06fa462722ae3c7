package config

import (
	"fmt"
	"time"
)

// ClientApp is the terminal identity presented on registration.
type ClientApp struct {
	TerminalID      string
	RegistrationKey string
	Version         string
}

// ClientAdapter configures the HTTP transport to the authoritative server.
type ClientAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

type ClientDB struct {
	DSN string
}

type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers configures the background sync job and the sync runner.
type ClientWorkers struct {
	SyncInterval time.Duration
	MaxPages     int
}

type ClientHealth struct {
	HTTPAddress string
}

// ClientConfig is the validated configuration consumed by the agent.
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Health  ClientHealth
}

// GetClientConfig loads the structured configuration and projects it onto
// [ClientConfig], returning a validation error when a mandatory setting is
// missing.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.client()
	return clientCfg, clientCfg.validate()
}

func (cfg *StructuredConfig) client() *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			TerminalID:      cfg.App.TerminalID,
			RegistrationKey: cfg.App.RegistrationKey,
			Version:         cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{
			SyncInterval: cfg.Workers.SyncInterval,
			MaxPages:     cfg.Workers.MaxPages,
		},
		Health: ClientHealth{HTTPAddress: cfg.Health.HTTPAddress},
	}
}
