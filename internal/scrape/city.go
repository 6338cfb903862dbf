package scrape

import (
	"context"
	"errors"

	"pumpwatch/internal/types"
)

// ScrapeCity scrapes every enabled grade for one city page and merges
// the observations per station. A grade-switch or navigation failure
// fails the whole city: partially scraped grades are discarded rather
// than published as a silently incomplete record set.
func (s *Scraper) ScrapeCity(ctx context.Context, cityURL string) ([]*types.StationRecord, error) {
	sess, err := s.factory.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			s.logger.Warn("session close failed", "url", cityURL, "error", cerr)
		}
	}()

	if err := sess.Navigate(ctx, cityURL); err != nil {
		return nil, err
	}

	// A city page that never shows a station link has no data to give;
	// that is an empty result, not an error.
	if err := sess.WaitFor(ctx, s.cfg.StationSelector, s.cfg.ProbeTimeout); err != nil {
		if errors.Is(err, types.ErrWaitTimeout) {
			s.logger.Debug("no stations rendered", "url", cityURL)
			return nil, nil
		}
		return nil, err
	}

	perGrade := make(map[types.Grade][]types.Observation, len(s.cfg.Grades))

	for _, grade := range s.cfg.Grades {
		if grade != types.GradeRegular {
			if err := s.switchGrade(ctx, sess, grade); err != nil {
				return nil, err
			}
		}

		obs, err := s.scrapePage(ctx, sess)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("grade scraped", "url", cityURL, "grade", grade, "stations", len(obs))
		perGrade[grade] = obs
	}

	return s.combineByStation(perGrade), nil
}

// combineByStation merges per-grade observations into one record per
// station, keyed by station ID. The first observation seen for a
// station fixes its name, URL, and address; later grades contribute
// only their own price and freshness fields. Output order is
// first-seen order.
func (s *Scraper) combineByStation(perGrade map[types.Grade][]types.Observation) []*types.StationRecord {
	combined := make(map[string]*types.StationRecord)
	var order []string

	for _, grade := range types.Grades {
		for _, obs := range perGrade[grade] {
			sid := types.StationIDFromURL(obs.StationURL)
			rec, ok := combined[sid]
			if !ok {
				rec = &types.StationRecord{
					Name:       obs.Name,
					StationURL: obs.StationURL,
					Address:    obs.Address,
				}
				combined[sid] = rec
				order = append(order, sid)
			}
			rec.SetPrice(grade, obs.Price)
			if s.cfg.IncludeUpdates {
				rec.SetUpdated(grade, obs.Updated)
			} else {
				rec.SetUpdated(grade, "")
			}
		}
	}

	records := make([]*types.StationRecord, len(order))
	for i, sid := range order {
		records[i] = combined[sid]
	}
	return records
}
