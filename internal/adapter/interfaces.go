// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client side of the sync API.
//
// [SyncAdapter] hides the transport from the inspector UI. The HTTP
// implementation maps non-2xx answers to the sentinel errors in errors.go so
// callers can branch with [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

// SyncAdapter talks to a sync server on behalf of one account.
type SyncAdapter interface {
	// Pull fetches the changes since lastPulledAt. Nil requests a full sync.
	Pull(ctx context.Context, lastPulledAt *int64) (models.PullResponse, error)

	// Push uploads local changes and returns the server's ack.
	Push(ctx context.Context, req models.PushRequest) (models.PushAck, error)

	// Version returns the server version string.
	Version(ctx context.Context) (string, error)

	// UserID is the account id named by the configured token, or 0 when
	// the token cannot be read.
	UserID() int64
}
