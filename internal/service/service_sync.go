// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/store"
	"github.com/MKhiriev/go-bankroll-sync/internal/validators"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// syncService is the concrete implementation of SyncService.
//
// All timestamps written or compared are taken from now, which is captured
// once per call. Rows are always scoped by the caller's user id.
type syncService struct {
	repository store.SyncRepository
	normalizer validators.RecordNormalizer

	// skew is how far in the future a client watermark may lie.
	skew time.Duration

	// retention is how long tombstones are served before being pruned.
	retention time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// SyncServiceOption customises a SyncService built by NewSyncService.
type SyncServiceOption func(*syncService)

// WithClock replaces the wall clock used to stamp writes and pull
// timestamps.
func WithClock(now func() time.Time) SyncServiceOption {
	return func(s *syncService) {
		s.now = now
	}
}

// NewSyncService constructs a SyncService over repository using the windows
// from cfg.
func NewSyncService(repository store.SyncRepository, cfg config.Sync, logger *logger.Logger, opts ...SyncServiceOption) SyncService {
	s := &syncService{
		repository: repository,
		normalizer: validators.NewRecordNormalizer(),
		skew:       cfg.ClockSkewTolerance,
		retention:  cfg.TombstoneRetention,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pull implements [SyncService].
//
// The user's sync clock is locked before the first query and the returned
// timestamp is never older than any stamp the reads can see. Pushes wait for
// the lock and are stamped after that timestamp, so a row written during a
// pull is reported by the following one rather than lost.
func (s *syncService) Pull(ctx context.Context, userID int64, req models.PullRequest) (models.PullResponse, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	since, err := s.watermark(req.LastPulledAt, now)
	if err != nil {
		log.Warn().Err(err).Str("func", "syncService.Pull").Msg("watermark rejected")
		return models.PullResponse{}, err
	}

	var resp models.PullResponse
	err = s.repository.WithinTx(ctx, func(ctx context.Context, tx store.SyncTx) error {
		stamp, err := claimStamp(ctx, tx, userID, now, false)
		if err != nil {
			return err
		}

		changes, err := s.assemble(ctx, tx, userID, since, stamp)
		if err != nil {
			return err
		}

		resp = models.PullResponse{Changes: changes, Timestamp: models.Millis(stamp)}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "syncService.Pull").Int64("user_id", userID).Msg("pull failed")
		return models.PullResponse{}, txError(err)
	}

	return resp, nil
}

// assemble reads the changes of every collection since the watermark as of
// stamp.
func (s *syncService) assemble(ctx context.Context, tx store.SyncTx, userID int64, since *time.Time, stamp time.Time) (models.ChangeSet, error) {
	log := logger.FromContext(ctx)

	horizon := stamp.Add(-s.retention)
	if since != nil && since.Before(horizon) {
		// Tombstones the client still needs may already be pruned.
		log.Warn().
			Str("func", "syncService.Pull").
			Int64("user_id", userID).
			Time("watermark", *since).
			Msg("watermark is older than tombstone retention, serving full sync")
		since = nil
	}

	changes := models.NewChangeSet()
	for _, c := range models.Collections {
		records, err := tx.ListChanges(ctx, models.ChangesQuery{
			Collection:       c,
			UserID:           userID,
			Since:            since,
			TombstoneHorizon: horizon,
		})
		if err != nil {
			log.Err(err).Str("func", "syncService.Pull").Str("collection", c.String()).Msg("failed to list changes")
			return nil, err
		}
		changes[c] = classifyChanges(records, since)
	}

	log.Info().
		Str("func", "syncService.Pull").
		Int64("user_id", userID).
		Bool("full_sync", since == nil).
		Dict("changes", changesSummary(changes)).
		Msg("pull assembled")

	return changes, nil
}

// Push implements [SyncService]. Creates of every collection are applied
// before any update, and updates before deletes, so that rows referenced
// within the same push exist when their dependents are written.
func (s *syncService) Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushAck, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	if _, err := s.watermark(req.LastPulledAt, now); err != nil {
		log.Warn().Err(err).Str("func", "syncService.Push").Msg("watermark rejected")
		return models.PushAck{}, err
	}
	for c := range req.Changes {
		if !c.Valid() {
			return models.PushAck{}, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
		}
	}

	var ack models.PushAck
	err := s.repository.WithinTx(ctx, func(ctx context.Context, tx store.SyncTx) error {
		at, err := claimStamp(ctx, tx, userID, now, true)
		if err != nil {
			return err
		}

		ack = models.NewPushAck()
		applier := &pushApplier{
			tx:         tx,
			normalizer: s.normalizer,
			userID:     userID,
			at:         at,
			ack:        &ack,
		}
		return applier.apply(ctx, req.Changes)
	})
	if err != nil {
		log.Err(err).Str("func", "syncService.Push").Int64("user_id", userID).Msg("push rolled back")
		return models.PushAck{}, txError(err)
	}

	log.Info().
		Str("func", "syncService.Push").
		Int64("user_id", userID).
		Int("rejected", len(ack.Rejected)).
		Msg("push applied")

	return ack, nil
}

// claimStamp locks the user's sync clock and returns the instant the call
// works at. A push is stamped strictly after every timestamp already handed
// out; a pull never returns a timestamp older than a stamp it can read.
func claimStamp(ctx context.Context, tx store.SyncTx, userID int64, now time.Time, write bool) (time.Time, error) {
	clock, err := tx.LockClock(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}

	stamp := models.Millis(now)
	switch {
	case write && stamp <= clock:
		stamp = clock + 1
	case !write && stamp < clock:
		stamp = clock
	}

	if stamp != clock {
		if err = tx.SetClock(ctx, userID, stamp); err != nil {
			return time.Time{}, err
		}
	}
	return models.FromMillis(stamp), nil
}

// PruneTombstones implements [SyncService].
func (s *syncService) PruneTombstones(ctx context.Context) (int64, error) {
	horizon := s.now().Add(-s.retention)

	n, err := s.repository.PruneTombstones(ctx, horizon)
	if err != nil {
		return 0, storeUnavailable(err)
	}
	return n, nil
}

// watermark converts a client watermark into the lower bound of a change
// query. Nil and zero mean "no watermark".
func (s *syncService) watermark(ms *int64, now time.Time) (*time.Time, error) {
	if ms == nil || *ms == 0 {
		return nil, nil
	}
	if *ms < 0 {
		return nil, fmt.Errorf("%w: %d is negative", ErrInvalidWatermark, *ms)
	}

	t := models.FromMillis(*ms)
	if t.After(now.Add(s.skew)) {
		return nil, fmt.Errorf("%w: %d is in the future", ErrInvalidWatermark, *ms)
	}
	return &t, nil
}

// classifyChanges sorts the rows of one collection into the three buckets.
// Every row lands in exactly one bucket: tombstones are reported as deleted,
// rows created after since as created and the rest as updated.
func classifyChanges(records []models.Record, since *time.Time) models.CollectionChanges {
	out := models.CollectionChanges{
		Created: []models.RawRecord{},
		Updated: []models.RawRecord{},
		Deleted: []string{},
	}

	for _, r := range records {
		switch {
		case r.IsDeleted():
			out.Deleted = append(out.Deleted, r.ID)
		case since == nil || r.CreatedAt.After(*since):
			out.Created = append(out.Created, models.ToRawRecord(r))
		default:
			out.Updated = append(out.Updated, models.ToRawRecord(r))
		}
	}

	return out
}

func changesSummary(cs models.ChangeSet) *zerolog.Event {
	d := zerolog.Dict()
	for _, c := range models.Collections {
		d = d.Int(c.String(), cs[c].Len())
	}
	return d
}

// txError maps a failed sync transaction to a service error. A user removed
// since authentication is reported as unauthenticated.
func txError(err error) error {
	if errors.Is(err, store.ErrNoUserWasFound) {
		return fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return storeUnavailable(err)
}

func storeUnavailable(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
