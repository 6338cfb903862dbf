package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pumpwatch/internal/types"
)

// JSONSink dumps one run's nested results to a timestamped file. The
// file mirrors the in-memory structure verbatim: city keys in run
// order, stations un-deduplicated, failed cities as error objects.
type JSONSink struct {
	dir    string
	logger *slog.Logger
}

// NewJSONSink writes files under dir, creating it on first use.
func NewJSONSink(dir string, logger *slog.Logger) *JSONSink {
	return &JSONSink{
		dir:    dir,
		logger: logger.With("component", "json_sink"),
	}
}

func (s *JSONSink) Name() string { return "json" }

func (s *JSONSink) Write(ctx context.Context, results *types.RunResults, meta types.RunMeta) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &types.SinkError{Sink: s.Name(), Err: fmt.Errorf("create output dir: %w", err)}
	}

	path := filepath.Join(s.dir, fmt.Sprintf("gas_prices_%s.json", meta.Label))
	f, err := os.Create(path)
	if err != nil {
		return &types.SinkError{Sink: s.Name(), Err: fmt.Errorf("create output file: %w", err)}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return &types.SinkError{Sink: s.Name(), Err: fmt.Errorf("encode JSON: %w", err)}
	}

	s.logger.Info("JSON written", "path", path, "cities", len(results.Cities))
	return nil
}

func (s *JSONSink) Close() error { return nil }
