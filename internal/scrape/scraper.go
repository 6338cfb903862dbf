// Package scrape turns rendered city listing pages into per-station
// price records, one pass per fuel grade.
package scrape

import (
	"log/slog"
	"time"

	"pumpwatch/internal/browser"
	"pumpwatch/internal/types"
)

// Config bounds one scraper's behavior. Values are fixed for the
// lifetime of the scraper.
type Config struct {
	// Grades to scrape, in canonical order. Regular, when present,
	// is read off the page as loaded; other grades go through the
	// selector control first.
	Grades []types.Grade

	// Limit caps stations per city and grade.
	Limit int

	// StationSelector matches the anchor of one station entry.
	StationSelector string

	// ProbeTimeout bounds the initial has-any-stations check.
	ProbeTimeout time.Duration

	// PageTimeout bounds the per-grade wait for station links.
	PageTimeout time.Duration

	// SwitchTimeout bounds each phase of a grade switch.
	SwitchTimeout time.Duration

	// PollInterval paces the switch readiness checks.
	PollInterval time.Duration

	// IncludeUpdates keeps the per-grade freshness text ("21 minutes
	// ago") on combined records. Off, the text is blanked but the
	// fields still exist.
	IncludeUpdates bool
}

// Scraper extracts station price records from rendered city pages.
type Scraper struct {
	cfg     Config
	factory browser.Factory
	logger  *slog.Logger
}

// New builds a scraper on top of a browser factory.
func New(cfg Config, factory browser.Factory, logger *slog.Logger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		factory: factory,
		logger:  logger.With("component", "scraper"),
	}
}
