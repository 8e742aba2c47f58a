// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

// SyncService implements the two sync operations for one authenticated user.
type SyncService interface {
	// Pull returns every change of the user's collections since
	// req.LastPulledAt together with the watermark for the next pull.
	Pull(ctx context.Context, userID int64, req models.PullRequest) (models.PullResponse, error)

	// Push applies a client change set atomically. Item-level failures are
	// reported in the ack; only request-level failures return an error.
	Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushAck, error)

	// PruneTombstones removes tombstones older than the retention window and
	// returns how many rows were removed.
	PruneTombstones(ctx context.Context) (int64, error)
}

// AuthService resolves a bearer credential to an active account.
type AuthService interface {
	ResolveUser(ctx context.Context, token string) (models.User, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// SyncServiceWrapper defines middleware composition for SyncService.
// Implementations wrap an existing SyncService to add behavior such as
// request validation.
type SyncServiceWrapper interface {
	Wrap(SyncService) SyncService
}
