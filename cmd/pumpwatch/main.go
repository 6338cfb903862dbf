package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pumpwatch/internal/browser"
	"pumpwatch/internal/config"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/pipeline"
)

var (
	cfgFile    string
	verbose    bool
	noJSON     bool
	noCSV      bool
	noSupabase bool
	headless   bool
	limit      int
	onlyCities []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pumpwatch",
		Short: "pumpwatch — GasBuddy retail fuel price collector",
		Long: `pumpwatch scrapes retail fuel prices from GasBuddy city listing pages.

Features:
  • Multi-city, multi-grade scraping (regular, midgrade, premium, diesel)
  • Stealth Chrome automation with image/style/font request blocking
  • Timestamped JSON and CSV exports
  • Supabase (PostgREST) or direct Postgres upsert, one row per station
  • Optional MongoDB run archive
  • Offline JSON→CSV conversion, page snapshots, result inspection`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape prices for every enabled city",
		Long:  "Scrape every enabled city's listing page across the enabled fuel grades and write the results to the configured sinks.",
		RunE:  runScrape,
	}

	cmd.Flags().BoolVar(&noJSON, "no-json", false, "skip the JSON file output for this run")
	cmd.Flags().BoolVar(&noCSV, "no-csv", false, "skip the CSV file output for this run")
	cmd.Flags().BoolVar(&noSupabase, "no-supabase", false, "skip the table upload for this run")
	cmd.Flags().BoolVar(&headless, "headless", false, "run Chrome headless")
	cmd.Flags().IntVar(&limit, "limit", 30, "max stations per city and grade")
	cmd.Flags().StringSliceVar(&onlyCities, "city", nil, "restrict the run to named cities (repeatable)")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := observability.NewLogger(&cfg.Logging)

	factory, err := browser.NewRodFactory(&cfg.Browser, logger)
	if err != nil {
		return fmt.Errorf("create browser: %w", err)
	}
	defer func() {
		if err := factory.Close(); err != nil {
			logger.Warn("browser close failed", "error", err)
		}
	}()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.New(cfg, factory, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	fmt.Printf("\n✅ Run complete in %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Printf("   Cities:    %d scraped, %d failed\n", summary.Cities-summary.Failed, summary.Failed)
	fmt.Printf("   Stations:  %d\n", summary.Stations)
	fmt.Printf("   Rows:      %d flattened, %d uploaded\n", summary.Rows, summary.Uploaded)

	return nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cmd *cobra.Command, cfg *config.Config) {
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if noJSON {
		cfg.Output.JSON = false
	}
	if noCSV {
		cfg.Output.CSV = false
	}
	if noSupabase {
		cfg.Output.Supabase = false
	}
	if headless {
		cfg.Browser.Headless = true
	}
	if cmd.Flags().Changed("limit") {
		cfg.Scrape.Limit = limit
	}
	if len(onlyCities) > 0 {
		// Naming a city on the command line also turns it on.
		var keep []config.CityConfig
		for _, city := range cfg.Cities {
			for _, want := range onlyCities {
				if strings.EqualFold(city.Name, want) {
					city.Enabled = true
					keep = append(keep, city)
					break
				}
			}
		}
		cfg.Cities = keep
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pumpwatch %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Cities:\n")
			for _, city := range cfg.Cities {
				marker := " "
				if city.Enabled {
					marker = "*"
				}
				fmt.Printf("  %s %-18s %s\n", marker, city.Name, city.URL)
			}
			fmt.Printf("\nGrades:\n")
			fmt.Printf("  Regular:           %v\n", cfg.Grades.Regular)
			fmt.Printf("  Midgrade:          %v\n", cfg.Grades.Midgrade)
			fmt.Printf("  Premium:           %v\n", cfg.Grades.Premium)
			fmt.Printf("  Diesel:            %v\n", cfg.Grades.Diesel)
			fmt.Printf("\nScrape:\n")
			fmt.Printf("  Limit:             %d stations per city/grade\n", cfg.Scrape.Limit)
			fmt.Printf("  Probe Timeout:     %s\n", cfg.Scrape.ProbeTimeout)
			fmt.Printf("  Page Timeout:      %s\n", cfg.Scrape.PageTimeout)
			fmt.Printf("  Switch Timeout:    %s\n", cfg.Scrape.SwitchTimeout)
			fmt.Printf("  Update Times:      %v\n", cfg.Scrape.IncludeUpdateTimes)
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Window:            %dx%d\n", cfg.Browser.WindowWidth, cfg.Browser.WindowHeight)
			fmt.Printf("  Blocked Patterns:  %d\n", len(cfg.Browser.BlockPatterns))
			fmt.Printf("\nOutput:\n")
			fmt.Printf("  JSON:              %v (%s)\n", cfg.Output.JSON, cfg.Output.JSONDir)
			fmt.Printf("  CSV:               %v (%s)\n", cfg.Output.CSV, cfg.Output.CSVDir)
			fmt.Printf("  Supabase:          %v\n", cfg.Output.Supabase)
			fmt.Printf("\nSupabase:\n")
			fmt.Printf("  URL:               %s\n", valueOrUnset(cfg.Supabase.URL))
			fmt.Printf("  Key:               %s\n", secretStatus(cfg.Supabase.Key))
			fmt.Printf("  Table:             %s\n", cfg.Supabase.Table)
			fmt.Printf("\nPostgres:\n")
			fmt.Printf("  DSN:               %s\n", secretStatus(cfg.Postgres.DSN))
			fmt.Printf("  Table:             %s\n", cfg.Postgres.Table)
			fmt.Printf("\nMongo:\n")
			fmt.Printf("  URI:               %s\n", secretStatus(cfg.Mongo.URI))
			fmt.Printf("  Database:          %s\n", cfg.Mongo.Database)
			fmt.Printf("  Collection:        %s\n", cfg.Mongo.Collection)
			fmt.Printf("\nLogging:\n")
			fmt.Printf("  Level:             %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:            %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:            %s\n", cfg.Logging.Output)
			return nil
		},
	}
	return cmd
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func secretStatus(v string) string {
	if v == "" {
		return "(not set)"
	}
	return "(set)"
}
