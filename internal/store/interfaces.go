// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

// UserRepository reads the accounts the sync engine serves.
type UserRepository interface {
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
}

// SyncRepository is the persistence side of pull and push.
type SyncRepository interface {
	// WithinTx runs fn inside a single database transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx SyncTx) error) error

	// PruneTombstones hard-deletes rows tombstoned before horizon and returns
	// how many rows were removed.
	PruneTombstones(ctx context.Context, horizon time.Time) (int64, error)
}

// SyncTx is the set of row operations available inside WithinTx. Every
// method reports a missing or foreign row through its boolean result, never
// through the error, which is reserved for store failures.
type SyncTx interface {
	// LockClock locks the sync clock row of userID until the transaction
	// ends and returns its value in milliseconds. Pulls and pushes of one
	// user are serialised by this lock.
	LockClock(ctx context.Context, userID int64) (int64, error)

	// SetClock stores the sync clock of userID. The row must be locked by
	// LockClock in the same transaction.
	SetClock(ctx context.Context, userID int64, ms int64) error

	// ListChanges returns the rows of one collection matching q, ordered by
	// updated_at.
	ListChanges(ctx context.Context, q models.ChangesQuery) ([]models.Record, error)

	// Insert creates the row unless the id is already taken. It returns
	// false on an id collision.
	Insert(ctx context.Context, m models.Mutation) (bool, error)

	// Update overwrites the columns in m.Fields of a live row owned by
	// m.UserID and stamps updated_at. It returns false when no such row exists.
	Update(ctx context.Context, m models.Mutation) (bool, error)

	// SoftDelete sets the tombstone of a live row owned by userID. It returns
	// false when the row is missing, foreign or already tombstoned.
	SoftDelete(ctx context.Context, c models.Collection, userID int64, id string, at time.Time) (bool, error)

	// Owner looks up who owns id regardless of tombstones.
	Owner(ctx context.Context, c models.Collection, id string) (Ownership, error)

	// Exists reports whether userID owns a row with id, tombstoned or not.
	Exists(ctx context.Context, c models.Collection, userID int64, id string) (bool, error)
}

// Ownership describes the current owner of a row id.
type Ownership struct {
	Found   bool
	UserID  int64
	Deleted bool
}

// ErrorClassificator decides whether a driver error is transient.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
