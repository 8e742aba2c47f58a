// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container. It is
// populated by merging environment variables, command-line flags and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token verification parameters and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the relational database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen addresses and timeouts for HTTP and gRPC.
	Server Server `envPrefix:"SERVER_"`

	// Sync holds the watermark and tombstone windows of the sync engine.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds background worker schedules.
	Workers Workers `envPrefix:"WORKERS_"`

	// Adapter holds the settings the client uses to reach the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level values.
type App struct {
	// TokenSignKey is the HMAC secret used to verify bearer JWTs.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer, when set, is the required "iss" claim of bearer JWTs.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// Version is exposed via GET /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the connection string: a PostgreSQL URL for the postgres driver
	// or a file path / "file:" URI for the sqlite driver.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Driver selects the backend: "postgres" (default) or "sqlite".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// MaxOpenConns caps the connection pool. Ignored by sqlite, which always
	// uses a single connection.
	// Env: STORAGE_DB_MAX_OPEN_CONNS
	MaxOpenConns int `env:"MAX_OPEN_CONNS"`
}

// Server holds network and timeout settings for the inbound transports.
type Server struct {
	// HTTPAddress is the "host:port" the HTTP server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the "host:port" the gRPC server listens on.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the time windows of the sync engine.
type Sync struct {
	// ClockSkewTolerance is how far in the future a client watermark may be
	// before it is rejected.
	// Env: SYNC_CLOCK_SKEW_TOLERANCE
	ClockSkewTolerance time.Duration `env:"CLOCK_SKEW_TOLERANCE"`

	// TombstoneRetention is how long soft-deleted rows are kept and reported
	// to pulling clients before the pruning worker removes them.
	// Env: SYNC_TOMBSTONE_RETENTION
	TombstoneRetention time.Duration `env:"TOMBSTONE_RETENTION"`
}

// Workers holds background worker schedules.
type Workers struct {
	// PruneInterval is the period of the tombstone pruning worker.
	// Env: WORKERS_PRUNE_INTERVAL
	PruneInterval time.Duration `env:"PRUNE_INTERVAL"`
}

// Adapter holds the client-side connection settings.
type Adapter struct {
	// HTTPAddress is the base address of the sync server.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is the bearer credential sent with every sync call.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`
}

// Storage drivers accepted in DB.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// defaultConfig holds the values used for fields no source has set.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version: "dev",
		},
		Storage: Storage{
			DB: DB{Driver: DriverPostgres, MaxOpenConns: 25},
		},
		Server: Server{
			RequestTimeout: 30 * time.Second,
		},
		Sync: Sync{
			ClockSkewTolerance: 5 * time.Minute,
			TombstoneRetention: 30 * 24 * time.Hour,
		},
		Workers: Workers{
			PruneInterval: time.Hour,
		},
		Adapter: Adapter{
			RequestTimeout: 15 * time.Second,
		},
	}
}

// GetStructuredConfig loads, merges and validates the server configuration
// from environment variables, command-line flags and the JSON file (path
// resolved from the first two), in that order.
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

// GetClientConfig loads the same sources as [GetStructuredConfig] and
// validates only what the sync inspector client needs.
func GetClientConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return cfg, cfg.validateClient()
}
