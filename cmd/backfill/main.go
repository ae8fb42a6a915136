package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/csvsource"
	"github.com/zatekoja/healthcaredecisionsupport/internal/application/services"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
	"github.com/zatekoja/healthcaredecisionsupport/pkg/config"
)

func main() {
	var path string
	var dryRun bool
	flag.StringVar(&path, "file", "", "metrics CSV to backfill (defaults to METRICS_CSV_PATH)")
	flag.BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("metrics-backfill", cfg.Log.Env, cfg.Log.Level)

	if path == "" {
		path = cfg.Data.MetricsPath
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loader := services.NewMetricsLoader(csvsource.NewFileSource(path), nil, !dryRun)
	raw, err := loader.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to read metrics table")
	}

	changed, err := loader.EnsureSchema(ctx, raw)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Backfill failed")
	}

	// Validate the result so a bad file is reported here rather than at server start
	table, err := services.NewMetricsTable(raw)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Backfilled table does not validate")
	}

	switch {
	case !changed:
		fmt.Printf("%s: location column already complete (%d rows)\n", path, len(table.Records()))
	case dryRun:
		fmt.Printf("%s: location column would be backfilled (%d rows, dry run)\n", path, len(table.Records()))
	default:
		fmt.Printf("%s: location column backfilled and written (%d rows)\n", path, len(table.Records()))
	}
}
