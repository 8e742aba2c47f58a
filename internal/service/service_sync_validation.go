package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-bankroll-sync/internal/validators"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// SyncValidationService rejects malformed pull and push requests before they
// reach the wrapped SyncService.
type SyncValidationService struct {
	inner     SyncService
	validator validators.Validator
}

func NewSyncValidationService() SyncServiceWrapper {
	return &SyncValidationService{
		validator: validators.NewSyncRequestValidator(),
	}
}

func (v *SyncValidationService) Pull(ctx context.Context, userID int64, req models.PullRequest) (models.PullResponse, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.PullResponse{}, mapValidationError(err)
	}
	return v.inner.Pull(ctx, userID, req)
}

func (v *SyncValidationService) Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushAck, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.PushAck{}, mapValidationError(err)
	}
	return v.inner.Push(ctx, userID, req)
}

func (v *SyncValidationService) PruneTombstones(ctx context.Context) (int64, error) {
	return v.inner.PruneTombstones(ctx)
}

func (v *SyncValidationService) Wrap(wrapped SyncService) SyncService {
	v.inner = wrapped
	return v
}

func mapValidationError(err error) error {
	switch {
	case errors.Is(err, validators.ErrNegativeWatermark):
		return fmt.Errorf("%w: %w", ErrInvalidWatermark, err)
	case errors.Is(err, validators.ErrUnknownCollection):
		return fmt.Errorf("%w: %w", ErrUnknownCollection, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
}
