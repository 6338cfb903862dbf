package observability

import "sync/atomic"

// Counters accumulates one run's totals. The pipeline increments them
// as it works and folds a snapshot into the end-of-run summary.
type Counters struct {
	CitiesScraped atomic.Int64
	CitiesFailed  atomic.Int64
	StationsFound atomic.Int64
	RowsFlattened atomic.Int64
	RowsUploaded  atomic.Int64
}

// Snapshot returns the current totals as a map, for logging.
func (c *Counters) Snapshot() map[string]int64 {
	return map[string]int64{
		"cities_scraped": c.CitiesScraped.Load(),
		"cities_failed":  c.CitiesFailed.Load(),
		"stations_found": c.StationsFound.Load(),
		"rows_flattened": c.RowsFlattened.Load(),
		"rows_uploaded":  c.RowsUploaded.Load(),
	}
}
