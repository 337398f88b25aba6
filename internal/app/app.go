// Package app wires configuration, storage, messaging and HTTP into the
// webhook ingest service.
package app

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payhook/config"
	"payhook/internal/external/downstream"
	"payhook/internal/external/gateway"
	"payhook/internal/external/kafka"
	"payhook/internal/external/opensearch"
	"payhook/internal/handlers"
	dedup_repo "payhook/internal/repo/dedup"
	"payhook/internal/webhook"
	"payhook/pkg/health"
	"payhook/pkg/logger"
	"payhook/pkg/postgres"
)

// MigrationFS is exported so integration test infrastructure can apply the
// same migrations against throwaway databases.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS

const shutdownTimeout = 5 * time.Second

// Run bootstraps and runs the ingest service until SIGINT/SIGTERM.
func Run(cfg config.Config) error {
	logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "console",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	policy, err := webhook.ParsePolicy(cfg.DedupPolicy)
	if err != nil {
		return fmt.Errorf("app - Run - %w", err)
	}

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		return fmt.Errorf("app - Run - postgres.New: %w", err)
	}
	defer pool.Close()

	if err := ApplyMigrations(cfg.PgURL, MigrationFS); err != nil {
		return fmt.Errorf("app - Run - ApplyMigrations: %w", err)
	}

	dedupStore := dedup_repo.NewPgDedupStore(pool)
	deduper := webhook.NewDeduper(dedupStore, policy)

	healthCheckers := []health.Checker{health.NewPostgresChecker(pool.Pool)}

	// Dispatch mode: sync forwards straight to the downstream app, kafka
	// publishes verified events for async consumption.
	var processor webhook.Processor
	switch cfg.WebhookMode {
	case "kafka":
		slog.Info("Webhook mode: kafka",
			"brokers", cfg.KafkaBrokers,
			"topic", cfg.KafkaEventsTopic)
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
		defer func() { _ = publisher.Close() }()
		processor = webhook.NewAsyncProcessor(publisher)
		healthCheckers = append(healthCheckers, health.NewKafkaChecker(cfg.KafkaBrokers))

		if len(cfg.OpensearchUrls) > 0 {
			sink, err := opensearch.NewDeliverySink(ctx, cfg.OpensearchUrls, cfg.OpensearchIndexDeliveries)
			if err != nil {
				return fmt.Errorf("app - Run - opensearch.NewDeliverySink: %w", err)
			}
			StartAuditWorker(ctx, cfg, sink)
		}
	case "sync":
		if cfg.DownstreamBaseURL == "" {
			return fmt.Errorf("app - Run - DOWNSTREAM_BASE_URL is required in sync mode")
		}
		slog.Info("Webhook mode: sync", "downstream", cfg.DownstreamBaseURL)
		client := downstream.New(cfg.DownstreamBaseURL, &http.Client{Timeout: cfg.HTTPDownstreamTimeout})
		processor = webhook.NewHTTPSyncProcessor(client)
	default:
		return fmt.Errorf("app - Run - unsupported webhook mode: %s", cfg.WebhookMode)
	}

	service := webhook.NewIngestService(cfg.VendorSalt, deduper, processor)

	vendorHandler := handlers.NewVendorHandler(service)
	eventHandler := handlers.NewEventHandler(service, handlers.EventHeaders{
		Signature:   cfg.SignatureHeader,
		EventType:   cfg.EventTypeHeader,
		EventObject: cfg.EventObjectHeader,
	})

	engine := NewGinEngine()
	router := NewRouter(vendorHandler, eventHandler, health.NewRegistry(healthCheckers...))
	if cfg.GatewayBaseURL != "" {
		gatewayClient := gateway.New(cfg.GatewayBaseURL, cfg.VendorSalt,
			&http.Client{Timeout: cfg.HTTPGatewayClientTimeout})
		router.WithReconcile(handlers.NewReconcileHandler(gatewayClient))
	}
	router.SetUp(engine)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		slog.Info("Ingest service started", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down ingest service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.Any("error", err))
	}

	slog.Info("Ingest service stopped")
	return nil
}
