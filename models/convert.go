// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ToRawRecord converts a persisted row into its wire form. Timestamps are
// emitted in milliseconds; the tombstone and owner never leave the server.
func ToRawRecord(r Record) RawRecord {
	raw := make(RawRecord, len(r.Fields)+3)
	for k, v := range r.Fields {
		raw[k] = v
	}
	raw["id"] = r.ID
	raw["created_at"] = Millis(r.CreatedAt)
	raw["updated_at"] = Millis(r.UpdatedAt)
	return raw
}
