// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
)

// ErrMissingCredentials is returned when a call carries no "authorization"
// metadata.
var ErrMissingCredentials = errors.New("missing `authorization` metadata")

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{ErrMissingCredentials, codes.Unauthenticated},
	{utils.ErrInvalidAuthorizationHeader, codes.Unauthenticated},
	{service.ErrUnauthenticated, codes.Unauthenticated},
	{service.ErrForbidden, codes.PermissionDenied},
	{service.ErrInvalidWatermark, codes.InvalidArgument},
	{service.ErrUnknownCollection, codes.InvalidArgument},
	{service.ErrInvalidRequest, codes.InvalidArgument},
	{service.ErrStoreUnavailable, codes.Unavailable},
}

// statusFromError converts a service error into a gRPC status. Store
// failures are reported without their driver detail.
func statusFromError(err error) error {
	for _, ec := range errorCodes {
		if !errors.Is(err, ec.err) {
			continue
		}
		if ec.code == codes.Unavailable {
			return status.Error(ec.code, service.ErrStoreUnavailable.Error())
		}
		return status.Error(ec.code, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
