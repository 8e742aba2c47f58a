package server

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/handler"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/workers"
)

// shutdownTimeout bounds how long in-flight requests may take to finish
// after a stop signal.
const shutdownTimeout = 15 * time.Second

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	workers    *workers.Workers
	logger     *logger.Logger
}

// NewServer binds the listeners of every enabled transport. workers may be
// nil.
func NewServer(handlers *handler.Handlers, w *workers.Workers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	s := &server{workers: w, logger: logger}

	if handlers.HTTP != nil {
		httpSrv, err := newHTTPServer(handlers.HTTP.Init(), cfg, logger)
		if err != nil {
			return nil, err
		}
		s.httpServer = httpSrv
	}
	if handlers.GRPC != nil {
		grpcSrv, err := newGRPCServer(handlers.GRPC, cfg, logger)
		if err != nil {
			if s.httpServer != nil {
				s.httpServer.listener.Close()
			}
			return nil, err
		}
		s.gRPCServer = grpcSrv
	}

	if s.httpServer == nil && s.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return s, nil
}

// RunServer serves until SIGTERM, SIGINT or SIGQUIT.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.run(ctx)
}

// Shutdown stops every transport. Workers stop with the context passed to run.
func (s *server) Shutdown(ctx context.Context) {
	if s.httpServer != nil {
		s.httpServer.Shutdown(ctx)
	}
	if s.gRPCServer != nil {
		s.gRPCServer.Shutdown(ctx)
	}
}

// run serves until ctx is done, then shuts the transports down and waits for
// every goroutine it started.
func (s *server) run(ctx context.Context) {
	var wg sync.WaitGroup

	start := func(name string, fn func()) {
		s.logger.Info().Msgf("launching %s", name)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if s.httpServer != nil {
		start("HTTP server", s.httpServer.RunServer)
	}
	if s.gRPCServer != nil {
		start("gRPC server", s.gRPCServer.RunServer)
	}
	if s.workers != nil {
		start("workers", func() { s.workers.Run(ctx) })
	}

	<-ctx.Done()
	s.logger.Info().Msg("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.Shutdown(shutdownCtx)

	wg.Wait()
	s.logger.Info().Msg("server shut down gracefully")
}
