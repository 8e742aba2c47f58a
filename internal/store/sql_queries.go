// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

// syncMetaColumns are present in every synced table, in scan order.
var syncMetaColumns = []string{"id", "user_id", "created_at", "updated_at", "deleted_at"}

func selectColumns(schema models.Schema) []string {
	cols := make([]string, 0, len(syncMetaColumns)+len(schema.Columns))
	cols = append(cols, syncMetaColumns...)
	return append(cols, schema.ColumnNames()...)
}

// stampUpdatedAt keeps updated_at >= created_at even if the clock stepped
// back since the row was created.
func stampUpdatedAt(at int64) sq.Sqlizer {
	return sq.Expr("CASE WHEN created_at > ? THEN created_at ELSE ? END", at, at)
}

func buildSelectUserQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Select("user_id", "email", "is_active").
		From("users").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

// buildLockClockQuery reads the user's sync clock. Postgres takes a row lock
// for the rest of the transaction; SQLite already serialises writers.
func buildLockClockQuery(b sq.StatementBuilderType, dialect Dialect, userID int64) (string, []any, error) {
	query := b.Select("sync_clock").
		From("users").
		Where(sq.Eq{"user_id": userID})
	if dialect == DialectPostgres {
		query = query.Suffix("FOR UPDATE")
	}
	return query.ToSql()
}

func buildSetClockQuery(b sq.StatementBuilderType, userID int64, ms int64) (string, []any, error) {
	return b.Update("users").
		Set("sync_clock", ms).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func buildListChangesQuery(b sq.StatementBuilderType, schema models.Schema, q models.ChangesQuery) (string, []any, error) {
	query := b.Select(selectColumns(schema)...).
		From(schema.Table).
		Where(sq.Eq{"user_id": q.UserID})

	if q.Since != nil {
		query = query.Where(sq.Gt{"updated_at": models.Millis(*q.Since)})
	}

	return query.
		Where(sq.Or{
			sq.Eq{"deleted_at": nil},
			sq.Gt{"deleted_at": models.Millis(q.TombstoneHorizon)},
		}).
		OrderBy("updated_at", "id").
		ToSql()
}

func buildInsertQuery(b sq.StatementBuilderType, schema models.Schema, m models.Mutation) (string, []any, error) {
	at := models.Millis(m.At)

	cols := []string{"id", "user_id", "created_at", "updated_at"}
	vals := []any{m.ID, m.UserID, at, at}
	for _, c := range schema.Columns {
		if v, ok := m.Fields[c.Name]; ok {
			cols = append(cols, c.Name)
			vals = append(vals, v)
		}
	}

	return b.Insert(schema.Table).
		Columns(cols...).
		Values(vals...).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
}

func buildUpdateQuery(b sq.StatementBuilderType, schema models.Schema, m models.Mutation) (string, []any, error) {
	query := b.Update(schema.Table).
		Set("updated_at", stampUpdatedAt(models.Millis(m.At)))

	for _, c := range schema.Columns {
		if v, ok := m.Fields[c.Name]; ok {
			query = query.Set(c.Name, v)
		}
	}

	return query.
		Where(sq.Eq{"id": m.ID}).
		Where(sq.Eq{"user_id": m.UserID}).
		Where(sq.Eq{"deleted_at": nil}).
		ToSql()
}

func buildSoftDeleteQuery(b sq.StatementBuilderType, schema models.Schema, userID int64, id string, at time.Time) (string, []any, error) {
	ms := models.Millis(at)
	return b.Update(schema.Table).
		Set("deleted_at", ms).
		Set("updated_at", stampUpdatedAt(ms)).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"deleted_at": nil}).
		ToSql()
}

func buildOwnerQuery(b sq.StatementBuilderType, schema models.Schema, id string) (string, []any, error) {
	return b.Select("user_id", "deleted_at").
		From(schema.Table).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildExistsQuery(b sq.StatementBuilderType, schema models.Schema, userID int64, id string) (string, []any, error) {
	return b.Select("1").
		From(schema.Table).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
}

func buildPruneQuery(b sq.StatementBuilderType, schema models.Schema, horizon time.Time) (string, []any, error) {
	return b.Delete(schema.Table).
		Where(sq.NotEq{"deleted_at": nil}).
		Where(sq.Lt{"deleted_at": models.Millis(horizon)}).
		ToSql()
}
