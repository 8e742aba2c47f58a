// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
)

const (
	traceIDKey       = "x-trace-id"
	authorizationKey = "authorization"
)

func (h *Handler) withRecovery(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			h.logger.Error().Str("method", info.FullMethod).Interface("panic", p).Msg("recovered from panic")
			err = status.Error(codes.Internal, "internal error")
		}
	}()
	return next(ctx, req)
}

// withTraceID attaches a request logger tagged with the caller's x-trace-id,
// or a fresh one, and returns the id in the response header.
func (h *Handler) withTraceID(ctx context.Context, req any, _ *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	traceID := firstMetadata(ctx, traceIDKey)
	if traceID == "" {
		traceID = h.traceIDs.Generate()
	}

	ctx, _ = h.logger.WithTraceID(ctx, traceID)
	_ = grpc.SetHeader(ctx, metadata.Pairs(traceIDKey, traceID))

	return next(ctx, req)
}

func (h *Handler) withLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := next(ctx, req)

	logger.FromContext(ctx).Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

// auth resolves the bearer token in the "authorization" metadata for the
// sync service methods. Other services, such as health, are public.
func (h *Handler) auth(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") {
		return next(ctx, req)
	}

	header := firstMetadata(ctx, authorizationKey)
	if header == "" {
		return nil, statusFromError(ErrMissingCredentials)
	}

	token, err := utils.ParseBearerToken(header)
	if err != nil {
		return nil, statusFromError(err)
	}

	user, err := h.services.AuthService.ResolveUser(ctx, token)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "Handler.auth").Msg("caller rejected")
		return nil, statusFromError(err)
	}

	log := logger.FromContext(ctx).GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Int64("user_id", user.UserID)
	})
	ctx = log.WithContext(utils.WithUserID(ctx, user.UserID))

	return next(ctx, req)
}

func firstMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
