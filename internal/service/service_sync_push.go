// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-bankroll-sync/internal/store"
	"github.com/MKhiriev/go-bankroll-sync/internal/validators"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// pushApplier applies one push inside an open transaction and records the
// outcome of every item in ack. Item failures never return an error; an
// error means the store failed and the transaction must roll back.
type pushApplier struct {
	tx         store.SyncTx
	normalizer validators.RecordNormalizer
	userID     int64
	at         time.Time
	ack        *models.PushAck
}

func (p *pushApplier) apply(ctx context.Context, changes models.ChangeSet) error {
	for _, op := range models.Operations {
		for _, c := range models.Collections {
			cc, ok := changes[c]
			if !ok {
				continue
			}

			var err error
			switch op {
			case models.OpCreated:
				err = p.applyRecords(ctx, c, cc.Created, p.create)
			case models.OpUpdated:
				err = p.applyRecords(ctx, c, cc.Updated, p.update)
			case models.OpDeleted:
				err = p.applyDeletes(ctx, c, cc.Deleted)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pushApplier) applyRecords(
	ctx context.Context,
	c models.Collection,
	records []models.RawRecord,
	fn func(context.Context, models.Collection, models.RawRecord) error,
) error {
	for _, raw := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, c, raw); err != nil {
			return err
		}
	}
	return nil
}

// create inserts a row under the client's id. An id the user already owns is
// overwritten, or left alone if tombstoned; an id owned by someone else is a
// conflict.
func (p *pushApplier) create(ctx context.Context, c models.Collection, raw models.RawRecord) error {
	m, ok := p.normalize(c, raw, models.OpCreated)
	if !ok {
		return nil
	}

	ok, err := p.referencesResolve(ctx, m, models.OpCreated)
	if err != nil || !ok {
		return err
	}

	inserted, err := p.tx.Insert(ctx, m)
	if err != nil {
		return err
	}
	if inserted {
		p.ack.MarkApplied(c, models.OpCreated)
		return nil
	}

	updated, err := p.tx.Update(ctx, m)
	if err != nil {
		return err
	}
	if updated {
		p.ack.MarkApplied(c, models.OpCreated)
		return nil
	}

	owner, err := p.tx.Owner(ctx, c, m.ID)
	if err != nil {
		return err
	}
	if owner.Found && owner.UserID == p.userID {
		p.ack.MarkApplied(c, models.OpCreated)
		return nil
	}

	p.reject(c, m.ID, models.OpCreated, models.RejectIdentityConflict, "id is taken")
	return nil
}

// update overwrites the present columns of a live row the user owns.
func (p *pushApplier) update(ctx context.Context, c models.Collection, raw models.RawRecord) error {
	m, ok := p.normalize(c, raw, models.OpUpdated)
	if !ok {
		return nil
	}

	ok, err := p.referencesResolve(ctx, m, models.OpUpdated)
	if err != nil || !ok {
		return err
	}

	updated, err := p.tx.Update(ctx, m)
	if err != nil {
		return err
	}
	if updated {
		p.ack.MarkApplied(c, models.OpUpdated)
		return nil
	}

	owner, err := p.tx.Owner(ctx, c, m.ID)
	if err != nil {
		return err
	}
	if owner.Found && owner.UserID == p.userID {
		// Tombstoned rows are never resurrected.
		p.ack.MarkApplied(c, models.OpUpdated)
		return nil
	}

	p.reject(c, m.ID, models.OpUpdated, models.RejectNotFound, "")
	return nil
}

// applyDeletes tombstones each id. Missing, foreign and already deleted ids
// are no-ops and still count as applied.
func (p *pushApplier) applyDeletes(ctx context.Context, c models.Collection, ids []string) error {
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := validators.CheckID(id); err != nil {
			p.reject(c, id, models.OpDeleted, models.RejectInvalidRecord, err.Error())
			continue
		}

		if _, err := p.tx.SoftDelete(ctx, c, p.userID, id, p.at); err != nil {
			return err
		}
		p.ack.MarkApplied(c, models.OpDeleted)
	}
	return nil
}

func (p *pushApplier) normalize(c models.Collection, raw models.RawRecord, op models.Operation) (models.Mutation, bool) {
	m, err := p.normalizer.Normalize(c, raw, op)
	if err != nil {
		p.reject(c, raw.ID(), op, models.RejectInvalidRecord, err.Error())
		return models.Mutation{}, false
	}

	m.UserID = p.userID
	m.At = p.at
	return m, true
}

// referencesResolve checks every non-null reference column of m against the
// user's rows. Tombstoned targets still resolve so that a push which deletes
// a session after adding hands to it acks the same way when retried.
func (p *pushApplier) referencesResolve(ctx context.Context, m models.Mutation, op models.Operation) (bool, error) {
	schema, _ := models.SchemaFor(m.Collection)
	for _, col := range schema.Columns {
		if col.Kind != models.KindReference {
			continue
		}
		ref, ok := m.Fields[col.Name].(string)
		if !ok {
			continue
		}

		exists, err := p.tx.Exists(ctx, col.References, p.userID, ref)
		if err != nil {
			return false, err
		}
		if !exists {
			p.reject(m.Collection, m.ID, op, models.RejectDanglingReference, fmt.Sprintf("%s %q not found", col.Name, ref))
			return false, nil
		}
	}
	return true, nil
}

func (p *pushApplier) reject(c models.Collection, id string, op models.Operation, reason models.RejectReason, detail string) {
	p.ack.Reject(models.Rejection{
		Collection: c,
		Identifier: id,
		Operation:  op,
		Reason:     reason,
		Detail:     detail,
	})
}
