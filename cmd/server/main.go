// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

// Command server runs the SessionScope backend: it receives end-of-session
// telemetry from the browser extension, scores engagement with the loaded
// XGBoost models, and persists one row per logical session in DuckDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/sessionscope/internal/api"
	"github.com/tomtom215/sessionscope/internal/config"
	"github.com/tomtom215/sessionscope/internal/database"
	"github.com/tomtom215/sessionscope/internal/ingest"
	"github.com/tomtom215/sessionscope/internal/logging"
	"github.com/tomtom215/sessionscope/internal/scoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Int("port", cfg.Server.Port).
		Msg("SessionScope starting")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Err(err).Msg("Failed to close database")
		}
	}()

	// Both models must load or the process refuses to start. Serving
	// ingestion with a missing model would silently drop scores.
	registry, err := scoring.LoadRegistry(cfg.Models.VideoPath, cfg.Models.NonVideoPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load scoring models")
	}

	gate := ingest.NewGate(db, scoring.NewPipeline(registry))
	handler := api.NewHandler(gate, db, registry, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.NewRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Err(err).Msg("Graceful shutdown failed, forcing close")
		_ = server.Close()
	}

	logging.Info().Msg("SessionScope stopped")
}
