package service

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("account is not allowed to sync")

	ErrInvalidWatermark  = errors.New("invalid watermark")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidRequest    = errors.New("invalid sync request")

	ErrStoreUnavailable = errors.New("store unavailable")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
