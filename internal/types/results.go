package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RunMeta identifies one pipeline execution.
type RunMeta struct {
	Timestamp string // RFC 3339, UTC
	Label     string // filesystem-safe variant, used in output filenames
}

// CityResult is the outcome of scraping one city: either a station list
// (possibly empty) or an error message, never both.
type CityResult struct {
	City     string
	Stations []*StationRecord
	Err      string
}

// Failed reports whether the city's scrape errored out.
func (c *CityResult) Failed() bool { return c.Err != "" }

// MarshalJSON renders the station list, or an error marker object for a
// failed city.
func (c CityResult) MarshalJSON() ([]byte, error) {
	if c.Err != "" {
		return json.Marshal(map[string]string{"error": c.Err})
	}
	if c.Stations == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Stations)
}

// RunResults holds per-city outcomes in run order. A plain map would
// lose that order on serialization, so JSON round-trips go through the
// custom marshalers below.
type RunResults struct {
	Cities []CityResult
}

// Add appends one city outcome.
func (r *RunResults) Add(res CityResult) { r.Cities = append(r.Cities, res) }

// MarshalJSON writes an object keyed by city name, in run order.
func (r RunResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Cities {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.City)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form back, preserving key order.
func (r *RunResults) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("results: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		city, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("results: non-string city key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		res := CityResult{City: city}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var marker struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(trimmed, &marker); err != nil {
				return err
			}
			res.Err = marker.Error
		} else if err := json.Unmarshal(trimmed, &res.Stations); err != nil {
			return err
		}
		r.Cities = append(r.Cities, res)
	}

	return nil
}

// FlatRow is one tabular row for the table-store sinks: one station in
// one city during one run, or a city-level error marker. Nullable
// fields serialize as explicit JSON nulls so upserts overwrite stale
// columns instead of leaving them behind.
type FlatRow struct {
	RunTimestamp string `json:"run_timestamp"`
	RunLabel     string `json:"run_label"`
	City         string `json:"city"`

	StationID   *string `json:"station_id"`
	StationName *string `json:"station_name"`
	StationURL  *string `json:"station_url"`
	Address     *string `json:"address"`

	Regular         *float64 `json:"regular"`
	RegularUpdated  *string  `json:"regular_updated"`
	Midgrade        *float64 `json:"midgrade"`
	MidgradeUpdated *string  `json:"midgrade_updated"`
	Premium         *float64 `json:"premium"`
	PremiumUpdated  *string  `json:"premium_updated"`
	Diesel          *float64 `json:"diesel"`
	DieselUpdated   *string  `json:"diesel_updated"`

	ScrapeError *string `json:"scrape_error"`
}
