package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/releasarr/releasarr/internal/api"
	"github.com/releasarr/releasarr/internal/broker"
	"github.com/releasarr/releasarr/internal/config"
	"github.com/releasarr/releasarr/internal/graph"
	"github.com/releasarr/releasarr/internal/models"
	"github.com/releasarr/releasarr/internal/monitor"
	"github.com/releasarr/releasarr/internal/publishers"
	"github.com/releasarr/releasarr/internal/repositories"
	"github.com/releasarr/releasarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LokiHost)
	logger.Info("Starting Releasarr")
	logger.WithField("database", models.RedactDSN(cfg.DatabaseURL)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Connect the broker and assert the streams
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer connectCancel()

	b, err := broker.Connect(connectCtx, cfg.NatsURL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect broker: %w", err)
	}
	defer b.Close()

	if err := b.EnsureStreams(connectCtx); err != nil {
		return fmt.Errorf("failed to ensure streams: %w", err)
	}

	// 5. Initialize repository and publishers
	repo := repositories.NewGamesRepository(db.DB(), logger)
	qbittorrent := publishers.NewQbittorrentPublisher(b, logger)
	fitgirl := publishers.NewFitGirlPublisher(b, logger)

	// 6. Build the GraphQL schema
	pubsub := graph.NewPubSub(logger)
	resolver := graph.NewResolver(repo, qbittorrent, fitgirl, pubsub, logger)
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}
	logger.Info("GraphQL schema parsed")

	// 7. Start the stuck-download monitor
	mon := monitor.NewMonitor(repo, cfg.DownloadTimeoutMinutes, logger)
	if err := mon.Start(); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}
	defer mon.Stop()

	// 8. Initialize HTTP servers
	server := api.NewServer(cfg, schema, resolver, db, b, repo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Releasarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Releasarr stopped")
	return nil
}
