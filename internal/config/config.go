// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the terminal
// sync agent. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, an optional
// JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds terminal identity and version settings.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local record store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the address and timeout of the authoritative server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for the background sync job.
	Workers Workers `envPrefix:"WORKERS_"`

	// Health holds the listen address of the diagnostics endpoint.
	Health Health `envPrefix:"HEALTH_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App groups terminal identity settings.
type App struct {
	// TerminalID identifies this terminal to the server during
	// (re-)registration. Defaults to the host name.
	TerminalID string `env:"TERMINAL_ID"`

	// RegistrationKey is the shared secret presented on registration.
	RegistrationKey string `env:"REGISTRATION_KEY"`

	Version string `env:"VERSION"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the SQLite database location.
type DB struct {
	// DSN is the path (or sqlite3 DSN) of the local database file.
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds the connection settings for the authoritative server.
type Adapter struct {
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every transport call, including a streamed page.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for the background sync job.
type Workers struct {
	// SyncInterval is the period between manifest polls.
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// MaxPages caps the number of pages a single sync of one entity type
	// may fetch before it is treated as a protocol error.
	MaxPages int `env:"MAX_PAGES"`
}

// Health holds the diagnostics endpoint settings. An empty address disables
// the endpoint.
type Health struct {
	HTTPAddress string `env:"ADDRESS"`
}

// Default values applied to fields left empty by every other source.
const (
	DefaultDSN            = "refsync.db"
	DefaultRequestTimeout = 30 * time.Second
	DefaultSyncInterval   = 5 * time.Minute
	DefaultMaxPages       = 1000
)

func defaults() *StructuredConfig {
	host, _ := os.Hostname()
	return &StructuredConfig{
		App:     App{TerminalID: host},
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Adapter: Adapter{RequestTimeout: DefaultRequestTimeout},
		Workers: Workers{SyncInterval: DefaultSyncInterval, MaxPages: DefaultMaxPages},
	}
}

// GetStructuredConfig loads configuration from the environment, the process
// command line, the optional JSON file and defaults, in that priority order.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		withDefaults().
		build()
}
