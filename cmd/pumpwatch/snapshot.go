package main

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pumpwatch/internal/config"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/snapshot"
)

var snapshotOutput string

// snapshotCmd creates the "snapshot" subcommand.
func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <city-or-url>",
		Short: "Save a city page's HTML without a browser",
		Long: `Fetch a city listing page over plain HTTP and save the decoded HTML to a
file, for selector inspection and offline test fixtures. The argument is
either a configured city name or a full URL.`,
		Args: cobra.ExactArgs(1),
		RunE: runSnapshot,
	}

	cmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "output path (default derived from the URL)")

	return cmd
}

// runSnapshot executes the snapshot command.
func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger := observability.NewLogger(&cfg.Logging)

	target := resolveCityURL(cfg, args[0])

	out := snapshotOutput
	if out == "" {
		out = defaultSnapshotPath(target)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher := snapshot.NewFetcher(30*time.Second, logger)
	if err := fetcher.SaveTo(ctx, target, out); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	fmt.Printf("Saved %s\n", out)
	return nil
}

// resolveCityURL maps a configured city name to its URL; anything else
// is treated as a URL already.
func resolveCityURL(cfg *config.Config, arg string) string {
	for _, city := range cfg.Cities {
		if strings.EqualFold(city.Name, arg) {
			return city.URL
		}
	}
	return arg
}

func defaultSnapshotPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "snapshot.html"
	}
	return path.Base(u.Path) + ".html"
}
