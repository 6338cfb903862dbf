// Package pipeline runs one full collection pass: scrape every enabled
// city, then fan the results out to the configured sinks.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"pumpwatch/internal/browser"
	"pumpwatch/internal/config"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/results"
	"pumpwatch/internal/scrape"
	"pumpwatch/internal/sink"
	"pumpwatch/internal/types"
)

// Summary reports what one run accomplished.
type Summary struct {
	Cities   int
	Failed   int
	Stations int
	Rows     int
	Uploaded int
	Duration time.Duration
}

// Pipeline wires the scraper to the sinks for one run at a time.
type Pipeline struct {
	cfg     *config.Config
	factory browser.Factory
	logger  *slog.Logger
}

// New creates a pipeline. The factory is owned by the caller and stays
// open across runs.
func New(cfg *config.Config, factory browser.Factory, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		factory: factory,
		logger:  logger.With("component", "pipeline"),
	}
}

// Run scrapes every enabled city sequentially and writes the results to
// the enabled sinks. City and sink failures are recorded and logged but
// never abort the run; only context cancellation does.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	runAt := start.UTC()
	meta := types.RunMeta{
		Timestamp: runAt.Format(time.RFC3339),
		Label:     runAt.Format("2006-01-02_15-04-05"),
	}

	cities := p.cfg.EnabledCities()
	counters := &observability.Counters{}
	scraper := scrape.New(p.scrapeConfig(), p.factory, p.logger)

	p.logger.Info("run starting",
		"run", meta.Label,
		"cities", len(cities),
		"grades", len(p.cfg.Grades.EnabledGrades()),
		"limit", p.cfg.Scrape.Limit,
	)

	run := &types.RunResults{}
	for _, city := range cities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.logger.Info("scraping city", "city", city.Name, "url", city.URL)
		records, err := scraper.ScrapeCity(ctx, city.URL)
		if err != nil {
			p.logger.Error("city scrape failed", "city", city.Name, "error", err)
			counters.CitiesFailed.Add(1)
			run.Add(types.CityResult{City: city.Name, Err: err.Error()})
			continue
		}

		counters.CitiesScraped.Add(1)
		counters.StationsFound.Add(int64(len(records)))
		p.logger.Info("city scraped", "city", city.Name, "stations", len(records))
		run.Add(types.CityResult{City: city.Name, Stations: records})
	}

	if p.cfg.Output.JSON {
		p.writeResults(ctx, sink.NewJSONSink(p.cfg.Output.JSONDir, p.logger), run, meta)
	} else {
		p.logger.Info("skipped JSON output")
	}

	rows := results.DedupeRows(results.Flatten(run, meta))
	counters.RowsFlattened.Add(int64(len(rows)))

	if p.cfg.Output.Supabase {
		p.upload(ctx, rows, counters)
	} else {
		p.logger.Info("skipped upload")
	}

	if p.cfg.Mongo.URI != "" {
		p.archive(ctx, run, meta)
	}

	if p.cfg.Output.CSV {
		p.writeResults(ctx, sink.NewCSVSink(p.cfg.Output.CSVDir, p.logger), run, meta)
	} else {
		p.logger.Info("skipped CSV output")
	}

	summary := &Summary{
		Cities:   len(cities),
		Failed:   int(counters.CitiesFailed.Load()),
		Stations: int(counters.StationsFound.Load()),
		Rows:     int(counters.RowsFlattened.Load()),
		Uploaded: int(counters.RowsUploaded.Load()),
		Duration: time.Since(start),
	}

	p.logger.Info("run complete", "totals", counters.Snapshot(), "duration", summary.Duration)
	return summary, nil
}

// upload sends the flattened rows to Postgres when a DSN is configured,
// otherwise to Supabase over PostgREST. A missing or failing target
// costs this run's upload, nothing else.
func (p *Pipeline) upload(ctx context.Context, rows []*types.FlatRow, counters *observability.Counters) {
	var (
		target sink.RowSink
		err    error
	)
	if p.cfg.Postgres.DSN != "" {
		target, err = sink.NewPostgresSink(ctx, p.cfg.Postgres.DSN, p.cfg.Postgres.Table, p.logger)
	} else {
		target, err = sink.NewSupabaseSink(p.cfg.Supabase.URL, p.cfg.Supabase.Key, p.cfg.Supabase.Table, p.logger)
	}
	if err != nil {
		p.logger.Error("upload sink unavailable", "error", err)
		return
	}
	defer p.closeSink(target.Name(), target.Close)

	if err := target.Write(ctx, rows); err != nil {
		p.logger.Error("upload failed", "sink", target.Name(), "error", err)
		return
	}
	counters.RowsUploaded.Add(int64(len(rows)))
}

// archive stores the nested run document in MongoDB.
func (p *Pipeline) archive(ctx context.Context, run *types.RunResults, meta types.RunMeta) {
	target, err := sink.NewMongoArchive(p.cfg.Mongo.URI, p.cfg.Mongo.Database, p.cfg.Mongo.Collection, p.logger)
	if err != nil {
		p.logger.Error("mongo archive unavailable", "error", err)
		return
	}
	p.writeResults(ctx, target, run, meta)
}

func (p *Pipeline) writeResults(ctx context.Context, target sink.ResultSink, run *types.RunResults, meta types.RunMeta) {
	defer p.closeSink(target.Name(), target.Close)
	if err := target.Write(ctx, run, meta); err != nil {
		p.logger.Error("sink write failed", "sink", target.Name(), "error", err)
	}
}

func (p *Pipeline) closeSink(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		p.logger.Warn("sink close failed", "sink", name, "error", err)
	}
}

func (p *Pipeline) scrapeConfig() scrape.Config {
	return scrape.Config{
		Grades:          p.cfg.Grades.EnabledGrades(),
		Limit:           p.cfg.Scrape.Limit,
		StationSelector: p.cfg.Scrape.StationSelector,
		ProbeTimeout:    p.cfg.Scrape.ProbeTimeout,
		PageTimeout:     p.cfg.Scrape.PageTimeout,
		SwitchTimeout:   p.cfg.Scrape.SwitchTimeout,
		PollInterval:    p.cfg.Scrape.PollInterval,
		IncludeUpdates:  p.cfg.Scrape.IncludeUpdateTimes,
	}
}
