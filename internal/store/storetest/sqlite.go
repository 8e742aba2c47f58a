// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package storetest provides a migrated SQLite database for tests of the
// packages built on top of store.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/store"
)

// NewSQLite opens a fresh, migrated SQLite database in a temp directory.
// The database is closed when the test ends.
func NewSQLite(t testing.TB) *store.DB {
	t.Helper()

	cfg := config.DB{
		DSN:    "file:" + filepath.Join(t.TempDir(), "sync.db") + "?_busy_timeout=5000",
		Driver: config.DriverSQLite,
	}
	db, err := store.NewDB(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

// CreateUser inserts an account and returns its id.
func CreateUser(t testing.TB, db *store.DB, email string, active bool) int64 {
	t.Helper()

	res, err := db.ExecContext(context.Background(),
		`INSERT INTO users (email, is_active) VALUES (?, ?)`, email, active)
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
