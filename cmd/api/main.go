package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/cache"
	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/csvsource"
	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/search"
	"github.com/zatekoja/healthcaredecisionsupport/internal/api/handlers"
	"github.com/zatekoja/healthcaredecisionsupport/internal/api/routes"
	"github.com/zatekoja/healthcaredecisionsupport/internal/application/services"
	"github.com/zatekoja/healthcaredecisionsupport/internal/application/tools"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/clients/redis"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
	"github.com/zatekoja/healthcaredecisionsupport/pkg/config"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Load the metrics table once; every request reads this snapshot
	loader := services.NewMetricsLoader(csvsource.NewFileSource(cfg.Data.MetricsPath), nil, cfg.Data.WriteBack)
	table, err := loader.Open(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.MetricsPath).Msg("Failed to load metrics table")
	}
	data := services.NewHospitalDataService(table)

	var queries services.HospitalQueries = data
	if cfg.Cache.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, serving without the analytics cache")
		} else {
			defer redisClient.Close()
			queries = services.NewCachedHospitalDataService(data, cache.NewRedisAdapter(redisClient), table.Version(), cfg.Cache.TTLSeconds, metrics)
			log.Info().Int("ttl_seconds", cfg.Cache.TTLSeconds).Msg("Analytics cache enabled")
		}
	}

	var index repositories.FacilityIndexRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, facility search disabled")
		} else {
			index = search.NewTypesenseAdapter(tsClient)
		}
	}
	directory := services.NewFacilityDirectoryService(data, index, nil)

	registry := tools.NewRegistry(metrics)
	if err := tools.RegisterHospitalTools(registry, queries); err != nil {
		log.Fatal().Err(err).Msg("Failed to register hospital tools")
	}
	if err := tools.RegisterDirectoryTools(registry, directory); err != nil {
		log.Fatal().Err(err).Msg("Failed to register directory tools")
	}

	var directoryHandler *handlers.DirectoryHandler
	if directory.SearchEnabled() {
		directoryHandler = handlers.NewDirectoryHandler(directory)
	}

	router := routes.NewRouter(
		handlers.NewHospitalHandler(queries),
		handlers.NewToolHandler(registry),
		directoryHandler,
		handlers.NewHealthHandler(table.Version(), len(table.Facilities())),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Int("tools", len(registry.Names())).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
	log.Info().Msg("Server stopped")
}
