package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/Medicarecoveragechecker/internal/adapters/sources/datacatalog"
	"github.com/zatekoja/Medicarecoveragechecker/internal/adapters/sources/datastore"
	"github.com/zatekoja/Medicarecoveragechecker/internal/adapters/sources/pfssearch"
	"github.com/zatekoja/Medicarecoveragechecker/internal/application/services"
	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/clients/cms"
	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/observability"
	"github.com/zatekoja/Medicarecoveragechecker/internal/tools"
	"github.com/zatekoja/Medicarecoveragechecker/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	env := os.Getenv("ENV")
	if env == "" {
		env = "production"
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-mcp", env)
	observability.SetLevel(cfg.Log.Level)

	log.Info().
		Str("service", cfg.OTEL.ServiceName+"-mcp").
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", env).
		Msg("Starting Medicare Coverage Checker MCP Server")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName+"-mcp",
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize CMS clients: one for data queries, a shorter-lived one for
	// connectivity probes
	queryClient := cms.NewClient(time.Duration(cfg.CMS.QueryTimeoutSeconds) * time.Second)
	probeClient := cms.NewClient(time.Duration(cfg.CMS.ConnectTimeoutSeconds) * time.Second)

	// Assemble the source chain in priority order
	lookupService := services.NewLookupService(
		pfssearch.NewWithOptions(queryClient, cfg.CMS.PFSSearchURL),
		datacatalog.NewWithOptions(queryClient, cfg.CMS.DataAPIBaseURL),
		datastore.NewWithOptions(queryClient, cfg.CMS.DataAPIBaseURL),
	)
	lookupService.SetMetrics(metrics)

	server := tools.NewServer(
		cfg.OTEL.ServiceVersion,
		tools.NewLookupTool(lookupService),
		tools.NewConnectivityTool(probeClient),
		tools.NewExplainTool(),
	)

	log.Info().Msg("MCP server listening on stdio")
	if err := server.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server terminated")
	}
	log.Info().Msg("MCP server stopped")
}
