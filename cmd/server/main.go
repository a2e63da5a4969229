// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

// Package main is the entry point for the ViralForge server.
//
// ViralForge learns viral content patterns from performance observations and
// predicts the viral potential of new content across five dimensions: title,
// thumbnail, structure, timing, and topic.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 sources (defaults, YAML file, env vars)
//  2. Logging: zerolog, JSON by default
//  3. Storage: file or badger snapshot backend
//  4. Engine: pattern store restored from the latest snapshot
//  5. Supervision tree: maintenance loop (data layer) and HTTP server (api layer)
//
// # Configuration
//
// Environment variables are VF_-prefixed:
//
//	export VF_SERVER_PORT=8080
//	export VF_STORAGE_BACKEND=badger
//	export VF_STORAGE_DATA_DIR=/data/viralforge
//	export VF_ENGINE_PATTERN_THRESHOLD=0.7
//	./viralforge
//
// A YAML file (config.yaml, or CONFIG_PATH) provides the same settings with
// lower precedence.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: the HTTP
// server drains in-flight requests, the supervision tree stops, and the
// engine writes a final snapshot before the process exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/viralforge/internal/api"
	"github.com/tomtom215/viralforge/internal/config"
	"github.com/tomtom215/viralforge/internal/logging"
	"github.com/tomtom215/viralforge/internal/supervisor"
	"github.com/tomtom215/viralforge/internal/supervisor/services"
	"github.com/tomtom215/viralforge/internal/viral"
	"github.com/tomtom215/viralforge/internal/viral/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger for config errors; config is not available yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("backend", cfg.Storage.Backend).
		Str("data_dir", cfg.Storage.DataDir).
		Int("max_patterns", cfg.Engine.MaxPatterns).
		Msg("Starting ViralForge")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := storage.Open(cfg.Storage.Backend, cfg.Storage.DataDir)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open snapshot store")
	}

	engine, err := viral.NewEngine(cfg.Engine.ToEngineConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create engine")
	}
	engine.SetSnapshotStore(snapshots)

	if err := engine.Load(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Failed to restore engine state")
	}

	handler := api.NewHandler(engine, logging.Logger())
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Bridge zerolog to slog for sutureslog compatibility.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewMaintenanceService(engine, cfg.Engine.SweepInterval, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Final snapshot; also closes the snapshot store.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := engine.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Final engine shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
