// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

func decodeRecord(t *testing.T, s string) models.RawRecord {
	t.Helper()
	var raw models.RawRecord
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

// ── create ───────────────────────────────────────────────────────────────────

func TestNormalize_CreateSession(t *testing.T) {
	raw := decodeRecord(t, `{
		"id": "s1",
		"start_time": 1700000000000,
		"game_type": "NLHE",
		"big_blind": 2,
		"buy_in": 200.50,
		"notes": null,
		"created_at": 1,
		"user_id": 99,
		"_status": "created",
		"_changed": "",
		"favourite_seat": 3
	}`)

	m, err := NewRecordNormalizer().Normalize(models.Sessions, raw, models.OpCreated)
	require.NoError(t, err)

	assert.Equal(t, models.Sessions, m.Collection)
	assert.Equal(t, "s1", m.ID)
	assert.Equal(t, map[string]any{
		"start_time": int64(1_700_000_000_000),
		"game_type":  "NLHE",
		"big_blind":  2.0,
		"buy_in":     200.5,
		"notes":      nil,
	}, m.Fields)
}

func TestNormalize_CreateErrors(t *testing.T) {
	tests := []struct {
		name       string
		collection models.Collection
		body       string
		wantErr    error
	}{
		{"missing id", models.Transactions, `{"amount": 1, "type": "deposit"}`, ErrMissingID},
		{"non-string id", models.Transactions, `{"id": 5, "amount": 1, "type": "deposit"}`, ErrMissingID},
		{"missing required", models.Transactions, `{"id": "t1", "type": "deposit"}`, ErrMissingRequiredField},
		{"null required", models.Transactions, `{"id": "t1", "amount": null, "type": "deposit"}`, ErrMissingRequiredField},
		{"string amount", models.Transactions, `{"id": "t1", "amount": "ten", "type": "deposit"}`, ErrInvalidFieldType},
		{"bad enum", models.Transactions, `{"id": "t1", "amount": 1, "type": "rakeback"}`, ErrInvalidEnumValue},
		{"fractional integer", models.Sessions, `{"id": "s1", "start_time": 1.5, "game_type": "NLHE", "big_blind": 2, "buy_in": 100}`, ErrInvalidFieldType},
		{"numeric reference", models.Hands, `{"id": "h1", "session_id": 12}`, ErrInvalidFieldType},
		{"unknown collection", "tournaments", `{"id": "x"}`, ErrUnknownCollection},
		{"id with NUL", models.Transactions, `{"id": "t\u00001", "amount": 1, "type": "deposit"}`, ErrInvalidCharacter},
		{"game type too long", models.Sessions, `{"id": "s1", "start_time": 1, "game_type": "` + strings.Repeat("H", 51) + `", "big_blind": 2, "buy_in": 100}`, ErrValueTooLong},
		{"location too long", models.Sessions, `{"id": "s1", "start_time": 1, "game_type": "NLHE", "big_blind": 2, "buy_in": 100, "location": "` + strings.Repeat("x", 256) + `"}`, ErrValueTooLong},
		{"notes with NUL", models.Transactions, `{"id": "t1", "amount": 1, "type": "deposit", "notes": "a\u0000b"}`, ErrInvalidCharacter},
		{"reference with NUL", models.Hands, `{"id": "h1", "session_id": "s\u00001"}`, ErrInvalidCharacter},
		{"amount overflows", models.Transactions, `{"id": "t1", "amount": 1e10, "type": "deposit"}`, ErrValueOutOfRange},
		{"amount rounds into overflow", models.Transactions, `{"id": "t1", "amount": -9999999999.996, "type": "deposit"}`, ErrValueOutOfRange},
		{"start time past int64", models.Sessions, `{"id": "s1", "start_time": 9223372036854775808, "game_type": "NLHE", "big_blind": 2, "buy_in": 100}`, ErrInvalidFieldType},
	}

	n := NewRecordNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.collection, decodeRecord(t, tt.body), models.OpCreated)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNormalize_ColumnLimitsAccepted(t *testing.T) {
	raw := decodeRecord(t, `{"id": "s1", "start_time": 1, "game_type": "`+strings.Repeat("é", 50)+
		`", "big_blind": 9999999999.99, "buy_in": -9999999999.99, "location": "`+strings.Repeat("x", 255)+`"}`)

	m, err := NewRecordNormalizer().Normalize(models.Sessions, raw, models.OpCreated)
	require.NoError(t, err)
	assert.Equal(t, 9999999999.99, m.Fields["big_blind"])
	assert.Len(t, m.Fields["location"], 255)
}

func TestCheckID(t *testing.T) {
	assert.NoError(t, CheckID("s-1"))
	assert.ErrorIs(t, CheckID(""), ErrMissingID)
	assert.ErrorIs(t, CheckID("s\x00"), ErrInvalidCharacter)
}

// ── update ───────────────────────────────────────────────────────────────────

func TestNormalize_UpdateOnlyPresentFields(t *testing.T) {
	raw := decodeRecord(t, `{"id": "s1", "cash_out": 350, "location": null}`)

	m, err := NewRecordNormalizer().Normalize(models.Sessions, raw, models.OpUpdated)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"cash_out": 350.0, "location": nil}, m.Fields)
}

func TestNormalize_UpdateCannotClearRequired(t *testing.T) {
	raw := decodeRecord(t, `{"id": "s1", "buy_in": null}`)

	_, err := NewRecordNormalizer().Normalize(models.Sessions, raw, models.OpUpdated)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestNormalize_EmptyReferenceClears(t *testing.T) {
	raw := decodeRecord(t, `{"id": "h1", "session_id": ""}`)

	m, err := NewRecordNormalizer().Normalize(models.Hands, raw, models.OpUpdated)
	require.NoError(t, err)
	assert.Contains(t, m.Fields, "session_id")
	assert.Nil(t, m.Fields["session_id"])
}

// ── conversions ──────────────────────────────────────────────────────────────

func TestToInt(t *testing.T) {
	tests := []struct {
		in     any
		want   int64
		wantOK bool
	}{
		{json.Number("42"), 42, true},
		{json.Number("1e3"), 1000, true},
		{json.Number("1.25"), 0, false},
		{float64(7), 7, true},
		{int(3), 3, true},
		{int64(-9), -9, true},
		{"12", 0, false},
		{json.Number("9223372036854775807"), math.MaxInt64, true},
		{json.Number("9223372036854775808"), 0, false},
		{float64(0x1p63), 0, false},
		{float64(-0x1p63), math.MinInt64, true},
	}

	for _, tt := range tests {
		got, ok := toInt(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{json.Number("2.5"), 2.5, true},
		{json.Number("abc"), 0, false},
		{float64(1.25), 1.25, true},
		{int64(4), 4, true},
		{true, 0, false},
	}

	for _, tt := range tests {
		got, ok := toFloat(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
