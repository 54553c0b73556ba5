// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/animerec/internal/api"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/recommend/storage"
	"github.com/tomtom215/animerec/internal/supervisor"
	"github.com/tomtom215/animerec/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("anime_path", cfg.Data.AnimePath).
		Str("ratings_path", cfg.Data.RatingsPath).
		Bool("remote_ratings", cfg.Data.RatingsURL != "").
		Str("environment", cfg.Server.Environment).
		Msg("Starting Animerec")

	startTime := time.Now()
	metrics.SetAppInfo(version)
	stopUptime := make(chan struct{})
	defer close(stopUptime)
	metrics.StartUptimeTicker(startTime, 15*time.Second, stopUptime)

	store, err := storage.Open(cfg.Storage.Path, cfg.Storage.ReportHistory)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("Failed to open build report store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing build report store")
		}
	}()

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), buildLoader(cfg), logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.SetReportRecorder(store)

	handler, err := api.NewHandler(engine, store, buildHandlerConfig(cfg))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}
	router := api.NewRouter(handler, buildChiMiddleware(cfg))
	server := newHTTPServer(cfg, router.Setup())

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Data.WarmOnStartup {
		tree.AddDataService(services.NewWarmupService(engine, 0, logging.WithComponent("supervisor")))
		logging.Info().Msg("Model warm-up service added")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, handler.Wait))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	watchConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Dur("uptime", time.Since(startTime)).Msg("Application stopped gracefully")
}

// watchConfig applies log level changes from the config file without a
// restart. Other settings need a restart.
func watchConfig() {
	path := config.FindConfigFile()
	if path == "" {
		return
	}

	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level updated from config file")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
	}
}
