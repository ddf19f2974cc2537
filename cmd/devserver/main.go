// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

// Command devserver runs a local festival API for developing and
// demoing the sync engine. All state is in memory.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/pulsefest/pulse-sync/internal/devserver"
	"github.com/pulsefest/pulse-sync/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("pulse-devserver")

	var cfg devserver.Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DEVSERVER_"}); err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	handler := devserver.NewHandler(cfg, log)
	if err := handler.RegisterDevice(cfg.DeviceID, cfg.DeviceKey); err != nil {
		log.Fatal().Err(err).Msg("error registering device")
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler.Init(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("pulse-devserver started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Msg("error shutting down http server")
	}
	log.Info().Msg("pulse-devserver stopped")
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
