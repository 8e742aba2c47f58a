// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-bankroll-sync/models"
)

// Field name constants used to scope validation of sync requests.
const (
	// FieldChanges targets the collection keys of a push change set.
	FieldChanges = "changes"

	// FieldLastPulledAt targets the client watermark.
	FieldLastPulledAt = "last_pulled_at"
)

// SyncRequestValidator implements [Validator] for [models.PullRequest] and
// [models.PushRequest]. Clock-dependent watermark rules belong to the sync
// service; this validator only checks what the request itself can prove.
type SyncRequestValidator struct{}

// NewSyncRequestValidator constructs a [SyncRequestValidator].
func NewSyncRequestValidator() Validator {
	return &SyncRequestValidator{}
}

// Validate dispatches to the request-specific checks.
func (v *SyncRequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.PullRequest:
		return v.validatePullRequest(ctx, value, fields...)
	case *models.PullRequest:
		return v.validatePullRequest(ctx, *value, fields...)

	case models.PushRequest:
		return v.validatePushRequest(ctx, value, fields...)
	case *models.PushRequest:
		return v.validatePushRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *SyncRequestValidator) validatePullRequest(_ context.Context, request models.PullRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLastPulledAt}
	}

	for _, f := range fields {
		switch f {
		case FieldLastPulledAt:
			if err := validateWatermark(request.LastPulledAt); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncRequestValidator) validatePushRequest(_ context.Context, request models.PushRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldChanges, FieldLastPulledAt}
	}

	for _, f := range fields {
		switch f {
		case FieldChanges:
			for c := range request.Changes {
				if !c.Valid() {
					return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
				}
			}
		case FieldLastPulledAt:
			if err := validateWatermark(request.LastPulledAt); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateWatermark(ms *int64) error {
	if ms != nil && *ms < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeWatermark, *ms)
	}
	return nil
}
