package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/streamlog/broker/internal/api/http"
	"github.com/streamlog/broker/internal/config"
	"github.com/streamlog/broker/internal/logger"
	"github.com/streamlog/broker/internal/metrics"
	"github.com/streamlog/broker/internal/storage"
	"github.com/streamlog/broker/internal/storage/metastore"
	"github.com/streamlog/broker/internal/storage/schema"
	"github.com/streamlog/broker/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(&logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		Rotation:   cfg.Logging.Rotation,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
	}); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.WithComponent("main")
	log.Info().
		Str("version", version.Get().Version).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("Starting streamlog broker")

	paths, err := storage.InitDirectories(cfg.Storage.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize data directories")
	}

	metaStore, err := metastore.Open(paths.MetadataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open metadata store")
	}

	schemas := schema.NewRegistry(metaStore)

	var brokerMetrics *metrics.BrokerMetrics
	var nodeMetrics *metrics.NodeMetrics
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		collector := metrics.NewCollector()
		brokerMetrics = metrics.NewBrokerMetrics(collector)
		nodeMetrics = metrics.NewNodeMetrics(collector)
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, collector.GetRegistry())
	}

	registry := storage.NewRegistry(paths, metaStore, schemas, brokerMetrics, cfg.Storage.SegmentSizeLimit)

	httpServer := httpapi.NewServer(cfg.Server.HTTPAddr, registry, schemas, nodeMetrics)

	ctx := context.Background()
	if metricsServer != nil {
		if err := metricsServer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}
	if err := httpServer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	// Wait for termination
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if metricsServer != nil {
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Metrics server shutdown error")
		}
	}
	if err := registry.Close(); err != nil {
		log.Error().Err(err).Msg("Registry close error")
	}
	if err := metaStore.Close(); err != nil {
		log.Error().Err(err).Msg("Metadata store close error")
	}

	log.Info().Msg("Shutdown complete")
}
