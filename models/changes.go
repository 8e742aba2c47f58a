// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
)

// RawRecord is the wire form of a single row: a flat JSON object with the
// row id, its columns and, on pull, the server timestamps in milliseconds.
type RawRecord map[string]any

// UnmarshalJSON decodes numbers as [json.Number] so integer columns survive
// the round trip without float rounding.
func (r *RawRecord) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	m := make(map[string]any)
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*r = m
	return nil
}

// ID returns the "id" key when it is a string.
func (r RawRecord) ID() string {
	id, _ := r["id"].(string)
	return id
}

// CollectionChanges holds the three buckets of one collection.
type CollectionChanges struct {
	Created []RawRecord `json:"created"`
	Updated []RawRecord `json:"updated"`
	Deleted []string    `json:"deleted"`
}

// Len returns the number of entries across all buckets.
func (c CollectionChanges) Len() int {
	return len(c.Created) + len(c.Updated) + len(c.Deleted)
}

// ChangeSet maps each collection to its created/updated/deleted buckets.
type ChangeSet map[Collection]CollectionChanges

// NewChangeSet returns a ChangeSet with empty, non-nil buckets for every
// known collection so that it encodes as [] rather than null.
func NewChangeSet() ChangeSet {
	cs := make(ChangeSet, len(Collections))
	for _, c := range Collections {
		cs[c] = CollectionChanges{
			Created: []RawRecord{},
			Updated: []RawRecord{},
			Deleted: []string{},
		}
	}
	return cs
}

// IsEmpty reports whether no collection carries any change.
func (cs ChangeSet) IsEmpty() bool {
	for _, c := range cs {
		if c.Len() > 0 {
			return false
		}
	}
	return true
}

// PullRequest is the body of a pull call.
type PullRequest struct {
	// LastPulledAt is the client watermark in milliseconds. Nil or zero
	// requests a full sync.
	LastPulledAt *int64 `json:"last_pulled_at,omitempty"`

	// SchemaVersion and Migration are sent by WatermelonDB clients and are
	// accepted but not interpreted.
	SchemaVersion *int            `json:"schema_version,omitempty"`
	Migration     json.RawMessage `json:"migration,omitempty"`
}

// PullResponse is the result of a pull: the changes since the watermark and
// the timestamp the client must send as its next watermark.
type PullResponse struct {
	Changes   ChangeSet `json:"changes"`
	Timestamp int64     `json:"timestamp"`
}

// PushRequest is the body of a push call.
type PushRequest struct {
	Changes      ChangeSet `json:"changes"`
	LastPulledAt *int64    `json:"last_pulled_at,omitempty"`
}
