package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pumpwatch/internal/types"
)

// csvHeader is the fixed column set: run stamp, location, then one
// price and freshness pair per grade.
var csvHeader = []string{
	"Run Timestamp", "City", "Station", "Address",
	"Regular", "Regular Updated",
	"Midgrade", "Midgrade Updated",
	"Premium", "Premium Updated",
	"Diesel", "Diesel Updated",
}

// CSVSink writes one run's results to a timestamped CSV file. Stations
// repeating across cities are deduplicated inline by lowercased
// (name, address); rows missing either field are always written.
// Failed cities become one marker row each.
type CSVSink struct {
	dir    string
	logger *slog.Logger
}

// NewCSVSink writes files under dir, creating it on first use.
func NewCSVSink(dir string, logger *slog.Logger) *CSVSink {
	return &CSVSink{
		dir:    dir,
		logger: logger.With("component", "csv_sink"),
	}
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Write(ctx context.Context, results *types.RunResults, meta types.RunMeta) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &types.SinkError{Sink: s.Name(), Err: fmt.Errorf("create output dir: %w", err)}
	}

	path := filepath.Join(s.dir, fmt.Sprintf("gas_prices_%s.csv", meta.Label))
	f, err := os.Create(path)
	if err != nil {
		return &types.SinkError{Sink: s.Name(), Err: fmt.Errorf("create output file: %w", err)}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return &types.SinkError{Sink: s.Name(), Err: fmt.Errorf("write header: %w", err)}
	}

	seen := make(map[[2]string]bool)
	count := 0

	for _, city := range results.Cities {
		if city.Failed() {
			row := make([]string, len(csvHeader))
			row[0], row[1], row[2], row[3] = meta.Label, city.City, "ERROR", city.Err
			if err := w.Write(row); err != nil {
				return &types.SinkError{Sink: s.Name(), Err: err}
			}
			count++
			continue
		}

		for _, rec := range city.Stations {
			name := strings.TrimSpace(rec.Name)
			address := strings.TrimSpace(rec.Address)

			if name != "" && address != "" {
				key := [2]string{strings.ToLower(name), strings.ToLower(address)}
				if seen[key] {
					continue
				}
				seen[key] = true
			}

			row := []string{meta.Label, city.City, name, address}
			for _, g := range types.Grades {
				row = append(row, types.FormatPrice(rec.Price(g)), freshnessCell(rec.Updated(g)))
			}
			if err := w.Write(row); err != nil {
				return &types.SinkError{Sink: s.Name(), Err: err}
			}
			count++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &types.SinkError{Sink: s.Name(), Err: err}
	}

	s.logger.Info("CSV written", "path", path, "rows", count)
	return nil
}

func (s *CSVSink) Close() error { return nil }

func freshnessCell(u *string) string {
	if u == nil {
		return ""
	}
	return *u
}
