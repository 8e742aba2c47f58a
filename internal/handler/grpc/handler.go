// Package grpc exposes the sync engine as the gRPC service
// bankroll.sync.v1.SyncService. Messages are the JSON documents of the HTTP
// API carried by a registered "json" codec; the standard health service is
// served next to it.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

// Handler is the root gRPC transport handler. It implements [SyncServer].
type Handler struct {
	services *service.Services
	traceIDs *utils.UUIDGenerator

	logger *logger.Logger
}

// NewHandler constructs a [Handler] over the service layer.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		traceIDs: utils.NewUUIDGenerator(),
		logger:   logger,
	}
}

// ServerOptions returns the interceptor chain the server must be built with.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(h.withRecovery, h.withTraceID, h.withLogging, h.auth),
	}
}

// Register adds the sync and health services to s. The returned health
// server reports the sync service as SERVING until it is shut down.
func (h *Handler) Register(s *grpc.Server) *health.Server {
	s.RegisterService(&SyncServiceDesc, h)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthSrv)

	return healthSrv
}

// Pull implements [SyncServer].
func (h *Handler) Pull(ctx context.Context, req *models.PullRequest) (*models.PullResponse, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, statusFromError(service.ErrUnauthenticated)
	}

	resp, err := h.services.SyncService.Pull(ctx, userID, *req)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "Handler.Pull").Send()
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// Push implements [SyncServer]. Item-level rejections travel in the ack.
func (h *Handler) Push(ctx context.Context, req *models.PushRequest) (*models.PushAck, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, statusFromError(service.ErrUnauthenticated)
	}

	ack, err := h.services.SyncService.Push(ctx, userID, *req)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "Handler.Push").Send()
		return nil, statusFromError(err)
	}
	return &ack, nil
}
