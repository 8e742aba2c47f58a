// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// syncRepository stores the synced collections. Each collection lives in its
// own table described by [models.Schema].
type syncRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSyncRepository constructs a [SyncRepository] backed by db.
func NewSyncRepository(db *DB, logger *logger.Logger) SyncRepository {
	logger.Debug().Msg("creating sync repository")
	return &syncRepository{
		db:     db,
		logger: logger,
	}
}

func schemaOf(c models.Collection) (models.Schema, error) {
	schema, ok := models.SchemaFor(c)
	if !ok {
		return models.Schema{}, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return schema, nil
}

// WithinTx implements [SyncRepository].
func (r *syncRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx SyncTx) error) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "syncRepository.WithinTx").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, r.db.classify(err))
	}
	defer tx.Rollback()

	if err = fn(ctx, &syncTx{tx: tx, db: r.db}); err != nil {
		log.Warn().Err(err).Str("func", "syncRepository.WithinTx").Msg("rolling back transaction")
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "syncRepository.WithinTx").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, r.db.classify(err))
	}

	return nil
}

// PruneTombstones implements [SyncRepository]. All collections are pruned in
// one transaction.
func (r *syncRepository) PruneTombstones(ctx context.Context, horizon time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	var pruned int64
	err := r.WithinTx(ctx, func(ctx context.Context, tx SyncTx) error {
		st := tx.(*syncTx)
		for _, c := range models.Collections {
			schema, _ := models.SchemaFor(c)
			query, args, err := buildPruneQuery(r.db.builder(), schema, horizon)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}

			n, err := st.exec(ctx, query, args...)
			if err != nil {
				return err
			}
			pruned += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("func", "syncRepository.PruneTombstones").
		Time("horizon", horizon).
		Int64("pruned", pruned).
		Msg("tombstones pruned")

	return pruned, nil
}

// syncTx implements [SyncTx] on top of an open *sql.Tx.
type syncTx struct {
	tx *sql.Tx
	db *DB
}

func (t *syncTx) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncTx.exec").
			Str("sqlstate", postgresError(err)).
			Msg("failed to execute statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, t.db.classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return n, nil
}

// LockClock implements [SyncTx].
func (t *syncTx) LockClock(ctx context.Context, userID int64) (int64, error) {
	query, args, err := buildLockClockQuery(t.db.builder(), t.db.dialect, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var clock int64
	err = t.tx.QueryRowContext(ctx, query, args...).Scan(&clock)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrNoUserWasFound
	case err != nil:
		logger.FromContext(ctx).Err(err).
			Str("func", "syncTx.LockClock").
			Int64("user_id", userID).
			Str("sqlstate", postgresError(err)).
			Msg("failed to lock sync clock")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, t.db.classify(err))
	}

	return clock, nil
}

// SetClock implements [SyncTx].
func (t *syncTx) SetClock(ctx context.Context, userID int64, ms int64) error {
	query, args, err := buildSetClockQuery(t.db.builder(), userID, ms)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := t.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoUserWasFound
	}
	return nil
}

// ListChanges implements [SyncTx].
func (t *syncTx) ListChanges(ctx context.Context, q models.ChangesQuery) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	schema, err := schemaOf(q.Collection)
	if err != nil {
		return nil, err
	}

	query, args, err := buildListChangesQuery(t.db.builder(), schema, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "syncTx.ListChanges").
			Str("collection", q.Collection.String()).
			Str("sqlstate", postgresError(err)).
			Msg("failed to query changes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, t.db.classify(err))
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		rec, scanErr := scanRecord(rows, schema)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "syncTx.ListChanges").
				Str("collection", q.Collection.String()).
				Msg("failed to scan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "syncTx.ListChanges").
			Str("collection", q.Collection.String()).
			Msg("error iterating rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, t.db.classify(err))
	}

	log.Debug().
		Str("func", "syncTx.ListChanges").
		Str("collection", q.Collection.String()).
		Int64("user_id", q.UserID).
		Int("rows", len(records)).
		Msg("changes listed")

	return records, nil
}

// Insert implements [SyncTx].
func (t *syncTx) Insert(ctx context.Context, m models.Mutation) (bool, error) {
	schema, err := schemaOf(m.Collection)
	if err != nil {
		return false, err
	}

	query, args, err := buildInsertQuery(t.db.builder(), schema, m)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := t.exec(ctx, query, args...)
	if err != nil {
		return false, err
	}

	logger.FromContext(ctx).Debug().
		Str("func", "syncTx.Insert").
		Str("collection", m.Collection.String()).
		Str("id", m.ID).
		Bool("inserted", n == 1).
		Msg("insert attempted")

	return n == 1, nil
}

// Update implements [SyncTx].
func (t *syncTx) Update(ctx context.Context, m models.Mutation) (bool, error) {
	schema, err := schemaOf(m.Collection)
	if err != nil {
		return false, err
	}

	query, args, err := buildUpdateQuery(t.db.builder(), schema, m)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := t.exec(ctx, query, args...)
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// SoftDelete implements [SyncTx].
func (t *syncTx) SoftDelete(ctx context.Context, c models.Collection, userID int64, id string, at time.Time) (bool, error) {
	schema, err := schemaOf(c)
	if err != nil {
		return false, err
	}

	query, args, err := buildSoftDeleteQuery(t.db.builder(), schema, userID, id, at)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	n, err := t.exec(ctx, query, args...)
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// Owner implements [SyncTx].
func (t *syncTx) Owner(ctx context.Context, c models.Collection, id string) (Ownership, error) {
	schema, err := schemaOf(c)
	if err != nil {
		return Ownership{}, err
	}

	query, args, err := buildOwnerQuery(t.db.builder(), schema, id)
	if err != nil {
		return Ownership{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		owner     Ownership
		deletedAt sql.NullInt64
	)
	err = t.tx.QueryRowContext(ctx, query, args...).Scan(&owner.UserID, &deletedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Ownership{}, nil
	case err != nil:
		return Ownership{}, fmt.Errorf("%w: %w", ErrExecutingQuery, t.db.classify(err))
	}

	owner.Found = true
	owner.Deleted = deletedAt.Valid
	return owner, nil
}

// Exists implements [SyncTx].
func (t *syncTx) Exists(ctx context.Context, c models.Collection, userID int64, id string) (bool, error) {
	schema, err := schemaOf(c)
	if err != nil {
		return false, err
	}

	query, args, err := buildExistsQuery(t.db.builder(), schema, userID, id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	err = t.tx.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, t.db.classify(err))
	}

	return true, nil
}
