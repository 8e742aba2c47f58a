package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-bankroll-sync/internal/adapter"
	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/tui"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewFileLogger("bankroll-sync-client", "bankroll-sync-client.log")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	syncAdapter, err := adapter.NewHTTPSyncAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create sync adapter")
	}

	ui, err := tui.New(syncAdapter, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err = ui.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "client run error: %v\n", err)
		log.Err(err).Msg("client run error")
		stop()
		os.Exit(1)
	}
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
