// Package results reshapes nested per-city scrape results into flat
// rows for the table-store sinks.
package results

import (
	"pumpwatch/internal/types"
)

// errorSentinel marks failed-city rows in place of a station name, so
// downstream consumers filtering on station_name notice the failure.
const errorSentinel = "ERROR"

// Flatten converts nested per-city results into one row per station,
// plus one marker row per failed city, each stamped with the run
// timestamp and label. An empty city contributes no rows.
func Flatten(results *types.RunResults, meta types.RunMeta) []*types.FlatRow {
	var rows []*types.FlatRow

	for _, city := range results.Cities {
		if city.Failed() {
			rows = append(rows, errorRow(city, meta))
			continue
		}
		for _, rec := range city.Stations {
			rows = append(rows, stationRow(city.City, rec, meta))
		}
	}

	return rows
}

func errorRow(city types.CityResult, meta types.RunMeta) *types.FlatRow {
	return &types.FlatRow{
		RunTimestamp: meta.Timestamp,
		RunLabel:     meta.Label,
		City:         city.City,
		StationName:  ptr(errorSentinel),
		ScrapeError:  ptr(city.Err),
	}
}

func stationRow(city string, rec *types.StationRecord, meta types.RunMeta) *types.FlatRow {
	row := &types.FlatRow{
		RunTimestamp: meta.Timestamp,
		RunLabel:     meta.Label,
		City:         city,

		// The name stays even when empty; only id, url, and address
		// null out.
		StationName: ptr(rec.Name),
		StationURL:  optional(rec.StationURL),
		Address:     optional(rec.Address),

		Regular:         rec.Price(types.GradeRegular),
		RegularUpdated:  optionalPtr(rec.Updated(types.GradeRegular)),
		Midgrade:        rec.Price(types.GradeMidgrade),
		MidgradeUpdated: optionalPtr(rec.Updated(types.GradeMidgrade)),
		Premium:         rec.Price(types.GradePremium),
		PremiumUpdated:  optionalPtr(rec.Updated(types.GradePremium)),
		Diesel:          rec.Price(types.GradeDiesel),
		DieselUpdated:   optionalPtr(rec.Updated(types.GradeDiesel)),
	}

	if rec.StationURL != "" {
		row.StationID = ptr(rec.StationID())
	}

	return row
}

// optional maps "" to nil so empty fields land as SQL nulls.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optionalPtr collapses a pointer to an empty string to nil.
func optionalPtr(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func ptr(s string) *string { return &s }
