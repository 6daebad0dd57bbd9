package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/physai-textbook/docsite/internal/config"
	"github.com/physai-textbook/docsite/internal/logger"
	"github.com/physai-textbook/docsite/internal/server"
	"github.com/physai-textbook/docsite/internal/telemetry"
)

var version = "dev" // Will be set during build with -ldflags

var setupTracing = telemetry.Setup

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run returns instead of exiting so the deferred trace flush always happens
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return err
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	shutdownTracing := setupTracing(cfg.Telemetry, "docsite-server", log)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	// Create server
	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create server")
		return err
	}

	log.Info().Str("version", version).Msg("Starting docsite server...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("Server failed to start")
		return err
	}
	return nil
}
