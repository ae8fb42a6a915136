package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/cache"
	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/csvsource"
	"github.com/zatekoja/healthcaredecisionsupport/internal/application/services"
	"github.com/zatekoja/healthcaredecisionsupport/internal/application/tools"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/clients/redis"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
	"github.com/zatekoja/healthcaredecisionsupport/pkg/config"
)

type cli struct {
	out      io.Writer
	file     string
	logLevel string
	registry *tools.Registry
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:          "metricsctl",
		Short:        "Query the hospital metrics table",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			observability.InitLogger("metricsctl", "development", c.logLevel)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(os.Stderr)
	root.PersistentFlags().StringVar(&c.file, "file", "", "metrics CSV (defaults to METRICS_CSV_PATH)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		c.toolsCmd(),
		c.callCmd(),
		c.shortcut("count", "Number of hospitals", 0, "get_facility_count"),
		c.shortcut("dates", "Date range covered by the table", 0, "get_date_range"),
		c.shortcut("columns", "Column names", 0, "get_column_names"),
		c.shortcut("regions", "Hospitals per region", 0, "get_region_distribution"),
		c.shortcut("location <hospital>", "Coordinates of a hospital", 1, "get_location", "facility_name"),
		c.shortcut("nearest <hospital>", "Closest other hospital", 1, "nearest_facility", "facility_name"),
		c.shortcut("trend <hospital>", "Capacity trend over all dates", 1, "capacity_trend", "facility_name"),
		c.shortcut("stats <date>", "System-wide statistics for a date", 1, "system_statistics", "date"),
		c.shortcut("distance <hospital-a> <hospital-b>", "Great-circle distance", 2, "distance", "facility_a", "facility_b"),
		c.shortcut("compare <hospital-a> <hospital-b> <date>", "Side-by-side comparison", 3, "compare_facilities", "facility_a", "facility_b", "date"),
		c.shortcut("travel <from> <to> <date>", "Ambulance transfer cost estimate", 3, "travel_cost", "facility_a", "facility_b", "date"),
		c.cacheCmd(),
	)
	return root
}

// load builds the tool registry over the table on first use
func (c *cli) load(ctx context.Context) (*tools.Registry, error) {
	if c.registry != nil {
		return c.registry, nil
	}

	path := c.file
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.Data.MetricsPath
	}

	// read-only: a CLI query never rewrites the source file
	table, err := services.NewMetricsLoader(csvsource.NewFileSource(path), nil, false).Open(ctx)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(nil)
	if err := tools.RegisterHospitalTools(registry, services.NewHospitalDataService(table)); err != nil {
		return nil, err
	}
	c.registry = registry
	return registry, nil
}

func (c *cli) toolsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return c.printJSON(registry.Descriptors())
			}
			_, err = fmt.Fprintln(c.out, registry.Describe())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print descriptors as JSON")
	return cmd
}

func (c *cli) callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Invoke a tool with JSON arguments",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
			}
			return c.invoke(cmd.Context(), args[0], raw)
		},
	}
}

// shortcut maps positional arguments onto a tool's named arguments
func (c *cli) shortcut(use, short string, nargs int, tool string, names ...string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]string, len(names))
			for i, name := range names {
				params[name] = args[i]
			}
			raw, err := json.Marshal(params)
			if err != nil {
				return err
			}
			return c.invoke(cmd.Context(), tool, raw)
		},
	}
}

func (c *cli) invoke(ctx context.Context, tool string, args json.RawMessage) error {
	registry, err := c.load(ctx)
	if err != nil {
		return err
	}

	result := registry.Invoke(ctx, tool, args)
	if err := c.printJSON(result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s failed: %s", tool, result.Error.Type)
	}
	return nil
}

func (c *cli) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the analytics cache",
	}

	var prefix string
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached analytics results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client, err := redis.NewClient(cmd.Context(), &cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()

			n, err := cache.NewRedisAdapter(client).DeletePrefix(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "removed %d keys under %q\n", n, prefix)
			return err
		},
	}
	purge.Flags().StringVar(&prefix, "prefix", services.CacheKeyPrefix, "key prefix to delete")
	cmd.AddCommand(purge)
	return cmd
}

func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
