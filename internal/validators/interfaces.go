// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks sync requests before they reach the store.
//
// Core concepts:
//   - Validator: structural validation of whole requests (known collections,
//     watermark sign). Supports optional field-level scoping.
//   - RecordNormalizer: converts a single wire record into a typed
//     [models.Mutation] according to the collection schema.
//
// Request-level failures abort the call; record-level failures are reported
// per item by the caller.
package validators

import (
	"context"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}

// RecordNormalizer turns a wire record into a mutation for collection c.
// On create every required column must be present; on update only the
// columns present in raw are returned and a JSON null clears the column.
type RecordNormalizer interface {
	Normalize(c models.Collection, raw models.RawRecord, op models.Operation) (models.Mutation, error)
}
