package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	syncgrpc "github.com/MKhiriev/go-bankroll-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
)

type grpcServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *syncgrpc.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errBindingListener, cfg.GRPCAddress, err)
	}

	srv := grpc.NewServer(handler.ServerOptions()...)
	return &grpcServer{
		server:   srv,
		health:   handler.Register(srv),
		listener: listener,
		logger:   logger,
	}, nil
}

func (g *grpcServer) RunServer() {
	g.logger.Info().Str("address", g.listener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(g.listener); err != nil {
		g.logger.Err(err).Msg("gRPC server Serve")
	}
}

// Shutdown marks the health service NOT_SERVING and drains in-flight calls,
// forcing the stop when ctx expires first.
func (g *grpcServer) Shutdown(ctx context.Context) {
	g.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		g.logger.Warn().Msg("gRPC graceful stop timed out")
		g.server.Stop()
		<-stopped
	}
}
