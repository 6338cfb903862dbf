package types

import (
	"strconv"
	"strings"
)

// Observation is one (station, grade) reading pulled from a rendered
// city page. Observations only live inside a single scrape pass; they
// are merged into StationRecords before anything downstream sees them.
type Observation struct {
	Name       string
	StationURL string
	Price      float64
	Address    string
	Updated    string
}

// StationRecord combines one station's observations across fuel grades.
// A grade's fields are nil when that grade was never observed for the
// station, so serialized records only carry the grades that were seen.
type StationRecord struct {
	Name       string `json:"name"`
	StationURL string `json:"station_url"`
	Address    string `json:"address"`

	Regular         *float64 `json:"regular,omitempty"`
	RegularUpdated  *string  `json:"regular_updated,omitempty"`
	Midgrade        *float64 `json:"midgrade,omitempty"`
	MidgradeUpdated *string  `json:"midgrade_updated,omitempty"`
	Premium         *float64 `json:"premium,omitempty"`
	PremiumUpdated  *string  `json:"premium_updated,omitempty"`
	Diesel          *float64 `json:"diesel,omitempty"`
	DieselUpdated   *string  `json:"diesel_updated,omitempty"`
}

// SetPrice records the price for one grade.
func (r *StationRecord) SetPrice(g Grade, price float64) {
	switch g {
	case GradeRegular:
		r.Regular = &price
	case GradeMidgrade:
		r.Midgrade = &price
	case GradePremium:
		r.Premium = &price
	case GradeDiesel:
		r.Diesel = &price
	}
}

// SetUpdated records the freshness text for one grade.
func (r *StationRecord) SetUpdated(g Grade, updated string) {
	switch g {
	case GradeRegular:
		r.RegularUpdated = &updated
	case GradeMidgrade:
		r.MidgradeUpdated = &updated
	case GradePremium:
		r.PremiumUpdated = &updated
	case GradeDiesel:
		r.DieselUpdated = &updated
	}
}

// Price returns the recorded price for a grade, or nil when the grade
// was never observed.
func (r *StationRecord) Price(g Grade) *float64 {
	switch g {
	case GradeRegular:
		return r.Regular
	case GradeMidgrade:
		return r.Midgrade
	case GradePremium:
		return r.Premium
	case GradeDiesel:
		return r.Diesel
	}
	return nil
}

// Updated returns the recorded freshness text for a grade, or nil.
func (r *StationRecord) Updated(g Grade) *string {
	switch g {
	case GradeRegular:
		return r.RegularUpdated
	case GradeMidgrade:
		return r.MidgradeUpdated
	case GradePremium:
		return r.PremiumUpdated
	case GradeDiesel:
		return r.DieselUpdated
	}
	return nil
}

// StationID derives the record's station identifier from its URL.
func (r *StationRecord) StationID() string { return StationIDFromURL(r.StationURL) }

// StationIDFromURL returns the trailing path segment of a station URL
// with any trailing slashes stripped. The site keys station pages by a
// numeric ID in that position; the value is only guaranteed stable
// within a single run.
func StationIDFromURL(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}

// FormatPrice renders a price for tabular output, "" when absent.
func FormatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
