package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

var transactionColumns = []string{"id", "user_id", "created_at", "updated_at", "deleted_at", "amount", "type", "notes"}

// listInTx runs ListChanges inside a transaction the way the sync service does.
func listInTx(repo SyncRepository, q models.ChangesQuery) ([]models.Record, error) {
	var records []models.Record
	err := repo.WithinTx(testContext(), func(ctx context.Context, tx SyncTx) error {
		var err error
		records, err = tx.ListChanges(ctx, q)
		return err
	})
	return records, err
}

// ── ListChanges ──────────────────────────────────────────────────────────────

func TestListChanges_ScansRecords(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncRepository(db, logger.Nop())

	rows := sqlmock.NewRows(transactionColumns).
		AddRow("t1", 7, int64(1_000), int64(2_000), nil, 100.5, "deposit", "first").
		AddRow("t2", 7, int64(1_500), int64(3_000), int64(3_000), 20.0, "withdrawal", nil)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE user_id = \\$1").
		WithArgs(int64(7), int64(0)).
		WillReturnRows(rows)
	mock.ExpectCommit()

	records, err := listInTx(repo, models.ChangesQuery{
		Collection:       models.Transactions,
		UserID:           7,
		TombstoneHorizon: models.FromMillis(0),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "t1", records[0].ID)
	assert.Equal(t, models.FromMillis(1_000), records[0].CreatedAt)
	assert.False(t, records[0].IsDeleted())
	assert.Equal(t, map[string]any{"amount": 100.5, "type": "deposit", "notes": "first"}, records[0].Fields)

	assert.True(t, records[1].IsDeleted())
	assert.Nil(t, records[1].Fields["notes"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListChanges_Errors(t *testing.T) {
	t.Run("unknown collection", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := listInTx(NewSyncRepository(db, logger.Nop()), models.ChangesQuery{Collection: "users"})
		assert.ErrorIs(t, err, ErrUnknownCollection)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT").WillReturnError(context.DeadlineExceeded)
		mock.ExpectRollback()

		_, err := listInTx(NewSyncRepository(db, logger.Nop()), models.ChangesQuery{Collection: models.Sessions, UserID: 1})
		assert.ErrorIs(t, err, ErrExecutingQuery)
		assert.ErrorIs(t, err, ErrTransient)
	})

	t.Run("scan error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("x"))
		mock.ExpectRollback()

		_, err := listInTx(NewSyncRepository(db, logger.Nop()), models.ChangesQuery{Collection: models.Sessions, UserID: 1})
		assert.ErrorIs(t, err, ErrScanningRow)
	})
}

// ── sync clock ───────────────────────────────────────────────────────────────

func TestSyncClock(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		wantClock int64
		wantErr   error
	}{
		{
			name: "locks then advances",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT sync_clock FROM users WHERE user_id = \\$1 FOR UPDATE").
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"sync_clock"}).AddRow(int64(1_000)))
				mock.ExpectExec("UPDATE users SET sync_clock = \\$1 WHERE user_id = \\$2").
					WithArgs(int64(1_001), int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantClock: 1_000,
		},
		{
			name: "unknown user",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT sync_clock").WillReturnRows(sqlmock.NewRows([]string{"sync_clock"}))
				mock.ExpectRollback()
			},
			wantErr: ErrNoUserWasFound,
		},
		{
			name: "lock failure",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT sync_clock").WillReturnError(errBoom)
				mock.ExpectRollback()
			},
			wantErr: ErrExecutingQuery,
		},
		{
			name: "user removed before update",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT sync_clock").
					WillReturnRows(sqlmock.NewRows([]string{"sync_clock"}).AddRow(int64(1_000)))
				mock.ExpectExec("UPDATE users SET sync_clock").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantClock: 1_000,
			wantErr:   ErrNoUserWasFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.mockSetup(mock)

			var clock int64
			err := NewSyncRepository(db, logger.Nop()).WithinTx(testContext(), func(ctx context.Context, tx SyncTx) error {
				var err error
				if clock, err = tx.LockClock(ctx, 7); err != nil {
					return err
				}
				return tx.SetClock(ctx, 7, clock+1)
			})

			assert.Equal(t, tt.wantClock, clock)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ── WithinTx ─────────────────────────────────────────────────────────────────

func TestWithinTx(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		fn        func(ctx context.Context, tx SyncTx) error
		wantErr   error
	}{
		{
			name: "commit on success",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE sessions SET deleted_at").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx SyncTx) error {
				ok, err := tx.SoftDelete(ctx, models.Sessions, 1, "s1", models.FromMillis(10))
				if !ok {
					return errors.New("expected delete to apply")
				}
				return err
			},
		},
		{
			name: "rollback on callback error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:      func(context.Context, SyncTx) error { return errBoom },
			wantErr: errBoom,
		},
		{
			name: "begin failure",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errBoom)
			},
			fn:      func(context.Context, SyncTx) error { return nil },
			wantErr: ErrBeginningTransaction,
		},
		{
			name: "commit failure",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errBoom)
			},
			fn:      func(context.Context, SyncTx) error { return nil },
			wantErr: ErrCommitingTransaction,
		},
		{
			name: "statement failure aborts",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO sessions").WillReturnError(errBoom)
				mock.ExpectRollback()
			},
			fn: func(ctx context.Context, tx SyncTx) error {
				_, err := tx.Insert(ctx, models.Mutation{Collection: models.Sessions, ID: "s1", UserID: 1})
				return err
			},
			wantErr: ErrExecutingStatement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.mockSetup(mock)

			err := NewSyncRepository(db, logger.Nop()).WithinTx(testContext(), tt.fn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ── syncTx ───────────────────────────────────────────────────────────────────

func TestSyncTx_InsertConflictReturnsFalse(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions (.+) ON CONFLICT \\(id\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := NewSyncRepository(db, logger.Nop()).WithinTx(testContext(), func(ctx context.Context, tx SyncTx) error {
		ok, err := tx.Insert(ctx, models.Mutation{
			Collection: models.Transactions,
			ID:         "t1",
			UserID:     1,
			Fields:     map[string]any{"amount": 1.0, "type": "deposit"},
			At:         models.FromMillis(5),
		})
		assert.False(t, ok)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncTx_Owner(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, deleted_at FROM sessions WHERE id = \\$1").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "deleted_at"}).AddRow(9, int64(100)))
	mock.ExpectQuery("SELECT user_id, deleted_at FROM sessions WHERE id = \\$1").
		WithArgs("s2").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "deleted_at"}))
	mock.ExpectCommit()

	err := NewSyncRepository(db, logger.Nop()).WithinTx(testContext(), func(ctx context.Context, tx SyncTx) error {
		owner, err := tx.Owner(ctx, models.Sessions, "s1")
		require.NoError(t, err)
		assert.Equal(t, Ownership{Found: true, UserID: 9, Deleted: true}, owner)

		owner, err = tx.Owner(ctx, models.Sessions, "s2")
		require.NoError(t, err)
		assert.False(t, owner.Found)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPruneTombstones_AllCollections(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sessions").WithArgs(int64(1_000)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM transactions").WithArgs(int64(1_000)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM hands").WithArgs(int64(1_000)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := NewSyncRepository(db, logger.Nop()).PruneTombstones(testContext(), models.FromMillis(1_000))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
