// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ColumnKind describes how a payload column is typed on the wire and in the
// database.
type ColumnKind int

const (
	// KindString is a free text column.
	KindString ColumnKind = iota
	// KindNumber is a decimal amount (blinds, buy-ins, pots), stored with two
	// decimal places and bounded by AmountLimit.
	KindNumber
	// KindInteger is a whole number, used for millisecond instants.
	KindInteger
	// KindReference holds the id of a row in another collection.
	KindReference
)

// AmountLimit bounds the magnitude of KindNumber values once rounded to
// cents. It matches the NUMERIC(12,2) columns.
const AmountLimit = 1e10

// Column describes one client-writable column of a collection.
type Column struct {
	Name string
	Kind ColumnKind

	// Required columns must be present and non-null when a row is created
	// and may not be cleared by an update.
	Required bool

	// Enum, when non-empty, restricts a KindString column to these values.
	Enum []string

	// References names the target collection of a KindReference column.
	References Collection

	// MaxLen, when positive, caps a KindString column in characters.
	MaxLen int
}

// Schema is the column layout of a synced collection. Sync metadata columns
// (id, user_id, created_at, updated_at, deleted_at) are implicit.
type Schema struct {
	Collection Collection
	Table      string
	Columns    []Column
}

// Column looks up a payload column by name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the payload column names in declaration order.
func (s Schema) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	return names
}

// SchemaFor returns the schema of collection c.
func SchemaFor(c Collection) (Schema, bool) {
	s, ok := schemas[c]
	return s, ok
}

var schemas = map[Collection]Schema{
	Sessions: {
		Collection: Sessions,
		Table:      "sessions",
		Columns: []Column{
			{Name: "start_time", Kind: KindInteger, Required: true},
			{Name: "end_time", Kind: KindInteger},
			{Name: "game_type", Kind: KindString, Required: true, MaxLen: 50},
			{Name: "stakes", Kind: KindString, MaxLen: 50},
			{Name: "small_blind", Kind: KindNumber},
			{Name: "big_blind", Kind: KindNumber, Required: true},
			{Name: "buy_in", Kind: KindNumber, Required: true},
			{Name: "cash_out", Kind: KindNumber},
			{Name: "location", Kind: KindString, MaxLen: 255},
			{Name: "notes", Kind: KindString},
			{Name: "tips", Kind: KindNumber},
			{Name: "expenses", Kind: KindNumber},
		},
	},
	Hands: {
		Collection: Hands,
		Table:      "hands",
		Columns: []Column{
			{Name: "session_id", Kind: KindReference, References: Sessions},
			{Name: "cards", Kind: KindString},
			{Name: "community_cards", Kind: KindString},
			{Name: "actions", Kind: KindString},
			{Name: "pot", Kind: KindNumber},
			{Name: "notes", Kind: KindString},
		},
	},
	Transactions: {
		Collection: Transactions,
		Table:      "transactions",
		Columns: []Column{
			{Name: "amount", Kind: KindNumber, Required: true},
			{Name: "type", Kind: KindString, Required: true, Enum: []string{TransactionDeposit, TransactionWithdrawal}},
			{Name: "notes", Kind: KindString},
		},
	},
}

// Transaction types accepted in the transactions.type column.
const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
)
