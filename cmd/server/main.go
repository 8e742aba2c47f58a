package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/handler"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/server"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/internal/store"
	"github.com/MKhiriev/go-bankroll-sync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("bankroll-sync-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if buildVersion != "N/A" {
		cfg.App.Version = buildVersion
	}

	log.Debug().
		Str("driver", cfg.Storage.DB.Driver).
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Msg("received configs")

	db, err := store.NewDB(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	services, err := service.NewServices(store.NewStorages(db, log), *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(services, cfg.Workers, log), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
