// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

func (cfg *StructuredConfig) validate() error {
	if cfg.Adapter.RequestTimeout < 0 || cfg.Workers.SyncInterval < 0 || cfg.Workers.MaxPages < 0 {
		return ErrNegativeValue
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	// the watermark must survive restarts, so an in-memory database is refused
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.MaxPages <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.TerminalID == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
