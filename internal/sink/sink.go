// Package sink persists scrape results: timestamped JSON and CSV files
// next to the binary, a Supabase or Postgres table upsert, and an
// optional MongoDB run archive.
package sink

import (
	"context"

	"pumpwatch/internal/types"
)

// ResultSink persists one run's nested per-city results.
type ResultSink interface {
	Write(ctx context.Context, results *types.RunResults, meta types.RunMeta) error
	Close() error
	Name() string
}

// RowSink persists flattened rows. Rows carry their own run stamps.
type RowSink interface {
	Write(ctx context.Context, rows []*types.FlatRow) error
	Close() error
	Name() string
}
