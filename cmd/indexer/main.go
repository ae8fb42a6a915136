package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/csvsource"
	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/database"
	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/search"
	"github.com/zatekoja/healthcaredecisionsupport/internal/application/services"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
	"github.com/zatekoja/healthcaredecisionsupport/pkg/config"
)

type options struct {
	search    bool
	snapshots bool
}

func main() {
	var opts options
	var intervalFlag string
	flag.BoolVar(&opts.search, "search", true, "publish facilities to the Typesense directory")
	flag.BoolVar(&opts.snapshots, "snapshots", false, "upsert metrics rows into PostgreSQL")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval (e.g. 6h, 30m); empty runs once")
	flag.Parse()

	_ = godotenv.Load()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		var err error
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("Invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, opts); err != nil {
			log.Error().Err(err).Msg("Reindex failed")
		}

		if interval <= 0 {
			break
		}
		log.Info().Dur("next_run_in", interval).Msg("Reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

// indexOnce reloads the table so each run publishes the current file contents
func indexOnce(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	observability.InitLogger("metrics-indexer", cfg.Log.Env, cfg.Log.Level)

	loader := services.NewMetricsLoader(csvsource.NewFileSource(cfg.Data.MetricsPath), nil, cfg.Data.WriteBack)
	table, err := loader.Open(ctx)
	if err != nil {
		return err
	}
	data := services.NewHospitalDataService(table)

	var index repositories.FacilityIndexRepository
	if opts.search {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			return err
		}
		index = search.NewTypesenseAdapter(tsClient)
	}

	var snapshots repositories.MetricsSnapshotRepository
	if opts.snapshots {
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer pgClient.Close()

		adapter := database.NewMetricsSnapshotAdapter(pgClient.DB(), nil)
		if err := adapter.EnsureSchema(ctx); err != nil {
			return err
		}
		snapshots = adapter
	}

	directory := services.NewFacilityDirectoryService(data, index, snapshots)

	if opts.search {
		start := time.Now()
		n, err := directory.PublishDirectory(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("facilities", n).Dur("took", time.Since(start)).Msg("Directory published")
	}

	if opts.snapshots {
		start := time.Now()
		n, err := directory.ExportSnapshots(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("rows", n).Str("version", table.Version()).Dur("took", time.Since(start)).Msg("Snapshots exported")
	}

	return nil
}
