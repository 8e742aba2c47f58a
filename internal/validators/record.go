// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

type schemaNormalizer struct{}

// NewRecordNormalizer returns a [RecordNormalizer] driven by the collection
// schemas in package models.
func NewRecordNormalizer() RecordNormalizer {
	return &schemaNormalizer{}
}

// Normalize implements [RecordNormalizer]. Keys that are not schema columns,
// including server-owned ones such as created_at or user_id, are dropped.
func (n *schemaNormalizer) Normalize(c models.Collection, raw models.RawRecord, op models.Operation) (models.Mutation, error) {
	schema, ok := models.SchemaFor(c)
	if !ok {
		return models.Mutation{}, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	id := raw.ID()
	if err := CheckID(id); err != nil {
		return models.Mutation{}, err
	}

	fields := make(map[string]any, len(schema.Columns))
	for _, col := range schema.Columns {
		v, present := raw[col.Name]
		if !present {
			if op == models.OpCreated && col.Required {
				return models.Mutation{}, fmt.Errorf("%w: %s", ErrMissingRequiredField, col.Name)
			}
			continue
		}

		value, err := normalizeValue(col, v)
		if err != nil {
			return models.Mutation{}, err
		}
		if value == nil && col.Required {
			return models.Mutation{}, fmt.Errorf("%w: %s", ErrMissingRequiredField, col.Name)
		}
		fields[col.Name] = value
	}

	return models.Mutation{Collection: c, ID: id, Fields: fields}, nil
}

// CheckID reports whether id can be stored as a record identifier.
func CheckID(id string) error {
	if id == "" {
		return ErrMissingID
	}
	if strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: id", ErrInvalidCharacter)
	}
	return nil
}

func normalizeValue(col models.Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch col.Kind {
	case models.KindNumber:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidFieldType, col.Name)
		}
		if math.Abs(math.Round(f*100)/100) >= models.AmountLimit {
			return nil, fmt.Errorf("%w: %s", ErrValueOutOfRange, col.Name)
		}
		return f, nil

	case models.KindInteger:
		i, ok := toInt(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidFieldType, col.Name)
		}
		return i, nil

	case models.KindReference:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string id", ErrInvalidFieldType, col.Name)
		}
		// WatermelonDB sends an empty relation as "".
		if s == "" {
			return nil, nil
		}
		if strings.ContainsRune(s, 0) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCharacter, col.Name)
		}
		return s, nil

	default:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidFieldType, col.Name)
		}
		if len(col.Enum) > 0 && !slices.Contains(col.Enum, s) {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidEnumValue, col.Name, s)
		}
		if col.MaxLen > 0 && utf8.RuneCountInString(s) > col.MaxLen {
			return nil, fmt.Errorf("%w: %s exceeds %d characters", ErrValueTooLong, col.Name, col.MaxLen)
		}
		if strings.ContainsRune(s, 0) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCharacter, col.Name)
		}
		return s, nil
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case int:
		return int64(n), true
	case int64:
		return n, true
	}

	f, ok := toFloat(v)
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if !ok || f != math.Trunc(f) || f >= 0x1p63 || f < -0x1p63 {
		return 0, false
	}
	return int64(f), true
}
