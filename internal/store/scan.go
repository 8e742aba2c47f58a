// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

// scanRecord reads one row selected with selectColumns(schema).
func scanRecord(rows *sql.Rows, schema models.Schema) (models.Record, error) {
	var (
		rec                  models.Record
		createdAt, updatedAt int64
		deletedAt            sql.NullInt64
	)

	values := make([]any, len(schema.Columns))
	for i, c := range schema.Columns {
		switch c.Kind {
		case models.KindNumber:
			values[i] = new(sql.NullFloat64)
		case models.KindInteger:
			values[i] = new(sql.NullInt64)
		default:
			values[i] = new(sql.NullString)
		}
	}

	dest := append([]any{&rec.ID, &rec.UserID, &createdAt, &updatedAt, &deletedAt}, values...)
	if err := rows.Scan(dest...); err != nil {
		return models.Record{}, err
	}

	rec.CreatedAt = models.FromMillis(createdAt)
	rec.UpdatedAt = models.FromMillis(updatedAt)
	if deletedAt.Valid {
		t := models.FromMillis(deletedAt.Int64)
		rec.DeletedAt = &t
	}

	rec.Fields = make(map[string]any, len(schema.Columns))
	for i, c := range schema.Columns {
		rec.Fields[c.Name] = nullableValue(values[i])
	}

	return rec, nil
}

func nullableValue(v any) any {
	switch n := v.(type) {
	case *sql.NullString:
		if n.Valid {
			return n.String
		}
	case *sql.NullFloat64:
		if n.Valid {
			return n.Float64
		}
	case *sql.NullInt64:
		if n.Valid {
			return n.Int64
		}
	}
	return nil
}
