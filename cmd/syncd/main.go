package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pulsefest/pulse-sync/internal/adapter"
	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/internal/service"
	"github.com/pulsefest/pulse-sync/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("pulse-syncd")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening durable store")
	}
	defer db.Close()

	storages := store.NewStorages(db, log)

	transport := adapter.NewHTTPTransport(cfg.Transport, cfg.Device)
	probe, err := adapter.NewProbeConnectivity(cfg.Transport.BaseURL, cfg.Background.RequiresWifi)
	if err != nil {
		log.Fatal().Err(err).Msg("error building connectivity probe")
	}
	probe.Start()
	defer probe.Close()

	// mains powered installs report charging so the charging policy
	// never suppresses their background passes
	policy := adapter.StaticDevicePolicy{Charging: true}

	services := service.NewServices(storages, transport, probe, policy, storages.Records, cfg, log)

	// items left processing by a previous crash go back to pending
	recovered, err := services.Queue.RecoverStuck(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("error recovering stuck queue items")
	}
	if recovered > 0 {
		log.Info().Int64("count", recovered).Msg("re-armed queue items stuck in processing")
	}

	services.Background.Start(ctx)
	log.Info().Str("device_id", cfg.Device.ID).Msg("pulse-syncd started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	services.Background.Stop()
	services.Sync.Cancel()
	log.Info().Msg("pulse-syncd stopped")
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
