// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks the settings the sync server cannot start without.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is empty", ErrInvalidAppConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is empty", ErrInvalidStorageConfigs)
	}
	switch cfg.Storage.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unsupported driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return fmt.Errorf("%w: no listen address", ErrInvalidServerConfigs)
	}

	if cfg.Sync.ClockSkewTolerance <= 0 || cfg.Sync.TombstoneRetention <= 0 {
		return fmt.Errorf("%w: windows must be positive", ErrInvalidSyncConfigs)
	}

	if cfg.Workers.PruneInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

// validateClient checks the settings the sync inspector needs.
func (cfg *StructuredConfig) validateClient() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Adapter.Token == "" {
		return fmt.Errorf("%w: token is empty", ErrInvalidAdapterConfigs)
	}

	return nil
}
