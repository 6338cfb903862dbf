// Package pumpwatch provides a public API for embedding the scraper as
// a library.
//
// Example usage:
//
//	client, err := pumpwatch.NewClient(
//	    pumpwatch.WithHeadless(true),
//	    pumpwatch.WithGrades(pumpwatch.Regular, pumpwatch.Premium),
//	    pumpwatch.WithLimit(10),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	stations, err := client.ScrapeCity(ctx,
//	    "https://www.gasbuddy.com/gasprices/california/whittier")
//	for _, s := range stations {
//	    fmt.Println(s.Name, s.Address)
//	}
package pumpwatch

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"pumpwatch/internal/browser"
	"pumpwatch/internal/config"
	"pumpwatch/internal/scrape"
	"pumpwatch/internal/types"
)

// Grade aliases so callers never import internal packages.
const (
	Regular  = types.GradeRegular
	Midgrade = types.GradeMidgrade
	Premium  = types.GradePremium
	Diesel   = types.GradeDiesel
)

// Option configures a Client.
type Option func(*Client)

// WithHeadless runs Chrome without a visible window.
func WithHeadless(headless bool) Option {
	return func(c *Client) { c.browserCfg.Headless = headless }
}

// WithChromePath points the launcher at a specific Chrome binary.
func WithChromePath(path string) Option {
	return func(c *Client) { c.browserCfg.ChromePath = path }
}

// WithGrades restricts which grades ScrapeCity collects.
func WithGrades(grades ...types.Grade) Option {
	return func(c *Client) { c.scrapeCfg.Grades = grades }
}

// WithLimit caps stations per city and grade.
func WithLimit(limit int) Option {
	return func(c *Client) { c.scrapeCfg.Limit = limit }
}

// WithUpdateTimes keeps the per-grade freshness text on records.
func WithUpdateTimes(include bool) Option {
	return func(c *Client) { c.scrapeCfg.IncludeUpdates = include }
}

// WithPageTimeout bounds the per-grade wait for station links.
func WithPageTimeout(d time.Duration) Option {
	return func(c *Client) { c.scrapeCfg.PageTimeout = d }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client scrapes GasBuddy city pages. The underlying browser launches
// on the first ScrapeCity call, so offline use never touches Chrome.
type Client struct {
	browserCfg config.BrowserConfig
	scrapeCfg  scrape.Config
	logger     *slog.Logger

	mu      sync.Mutex
	factory *browser.RodFactory
}

// NewClient creates a client with the project defaults applied.
func NewClient(opts ...Option) (*Client, error) {
	defaults := config.DefaultConfig()

	c := &Client{
		browserCfg: defaults.Browser,
		scrapeCfg: scrape.Config{
			Grades:          defaults.Grades.EnabledGrades(),
			Limit:           defaults.Scrape.Limit,
			StationSelector: defaults.Scrape.StationSelector,
			ProbeTimeout:    defaults.Scrape.ProbeTimeout,
			PageTimeout:     defaults.Scrape.PageTimeout,
			SwitchTimeout:   defaults.Scrape.SwitchTimeout,
			PollInterval:    defaults.Scrape.PollInterval,
			IncludeUpdates:  defaults.Scrape.IncludeUpdateTimes,
		},
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ScrapeCity scrapes one city listing page across the configured
// grades and returns the merged per-station records.
func (c *Client) ScrapeCity(ctx context.Context, cityURL string) ([]*types.StationRecord, error) {
	factory, err := c.ensureFactory()
	if err != nil {
		return nil, err
	}
	return scrape.New(c.scrapeCfg, factory, c.logger).ScrapeCity(ctx, cityURL)
}

// ScrapeHTML parses a saved city page without a browser. The snapshot
// shows whatever grade was selected when it was taken; records carry it
// as regular.
func (c *Client) ScrapeHTML(ctx context.Context, body []byte, pageURL string) ([]*types.StationRecord, error) {
	sess, err := browser.NewStaticSession(body, pageURL)
	if err != nil {
		return nil, err
	}

	cfg := c.scrapeCfg
	cfg.Grades = []types.Grade{types.GradeRegular}

	return scrape.New(cfg, staticFactory{sess: sess}, c.logger).ScrapeCity(ctx, pageURL)
}

// Close shuts the browser down if one was launched.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.factory == nil {
		return nil
	}
	err := c.factory.Close()
	c.factory = nil
	return err
}

func (c *Client) ensureFactory() (*browser.RodFactory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.factory != nil {
		return c.factory, nil
	}
	factory, err := browser.NewRodFactory(&c.browserCfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.factory = factory
	return factory, nil
}

// staticFactory hands a pre-parsed session to the scraper.
type staticFactory struct {
	sess browser.Session
}

func (f staticFactory) NewSession(ctx context.Context) (browser.Session, error) {
	return f.sess, nil
}

func (f staticFactory) Close() error { return nil }
