// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncMeta carries the identity and the server-stamped timestamps shared by
// every synced row.
type SyncMeta struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsDeleted reports whether the row carries a tombstone.
func (m SyncMeta) IsDeleted() bool {
	return m.DeletedAt != nil
}

// Record is the persisted form of a synced row as read from the store.
// Fields maps column names to string, float64 or int64 values; nil means SQL NULL.
type Record struct {
	SyncMeta
	Fields map[string]any
}

// Mutation is a validated write for a single row. Fields only holds the
// columns the client sent; a nil value clears the column.
type Mutation struct {
	Collection Collection
	ID         string
	UserID     int64
	Fields     map[string]any
	At         time.Time
}

// Millis converts t to the millisecond wire representation.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts a millisecond wire timestamp to UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ChangesQuery selects the rows of one collection a pull has to report.
type ChangesQuery struct {
	Collection Collection
	UserID     int64

	// Since is the client watermark; nil selects every row.
	Since *time.Time

	// TombstoneHorizon hides tombstones older than the retention window.
	TombstoneHorizon time.Time
}
