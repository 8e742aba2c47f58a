package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func newDBFromSQL(sqlDB *sql.DB, dialect Dialect) *DB {
	var classifier ErrorClassificator = NewPostgresErrorClassifier()
	if dialect == DialectSQLite {
		classifier = NewSQLiteErrorClassifier()
	}
	return &DB{DB: sqlDB, dialect: dialect, errorClassificator: classifier, logger: logger.Nop()}
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return newDBFromSQL(sqlDB, DialectPostgres), mock
}
