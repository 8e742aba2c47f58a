// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "github.com/MKhiriev/go-bankroll-sync/internal/logger"

// Storages groups the repositories built on one database handle.
type Storages struct {
	UserRepository UserRepository
	SyncRepository SyncRepository
}

// NewStorages wires every repository to db.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository: NewUserRepository(db, logger),
		SyncRepository: NewSyncRepository(db, logger),
	}
}
