package scrape

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"pumpwatch/internal/browser"
	"pumpwatch/internal/types"
)

var (
	priceRe   = regexp.MustCompile(`\$\s*(\d+\.\d{2})`)
	updatedRe = regexp.MustCompile(`(?i)\bago\b`)
)

// scrapePage extracts one observation per station for whatever grade
// the page is currently showing. A page that never renders a station
// link yields an empty result, not an error. Stations whose card shows
// no parseable price are dropped.
func (s *Scraper) scrapePage(ctx context.Context, sess browser.Session) ([]types.Observation, error) {
	if err := sess.WaitFor(ctx, s.cfg.StationSelector, s.cfg.PageTimeout); err != nil {
		if errors.Is(err, types.ErrWaitTimeout) {
			return nil, nil
		}
		return nil, err
	}

	links, err := sess.Elements(s.cfg.StationSelector)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(sess.URL())

	var observations []types.Observation
	seen := make(map[string]bool, len(links))

	for _, link := range links {
		name, err := link.Text()
		if err != nil {
			continue
		}
		name = strings.TrimSpace(name)

		href, err := link.Attr("href")
		if err != nil {
			continue
		}
		href = resolveHref(base, href)

		if name == "" || href == "" {
			continue
		}
		// The same station can be linked more than once; first wins.
		if seen[href] {
			continue
		}
		seen[href] = true

		card, err := s.findStationCard(link)
		if err != nil {
			return nil, err
		}
		if card == nil {
			continue
		}

		text, err := card.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)

		price, ok := firstPrice(text)
		if !ok {
			continue
		}

		observations = append(observations, types.Observation{
			Name:       name,
			StationURL: href,
			Price:      price,
			Address:    firstLine(text, LooksLikeAddress),
			Updated:    firstLine(text, updatedRe.MatchString),
		})

		if len(observations) >= s.cfg.Limit {
			break
		}
	}

	return observations, nil
}

// firstPrice pulls the first dollar amount out of card text.
func firstPrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// firstLine returns the first non-blank line of text satisfying match.
func firstLine(text string, match func(string) bool) string {
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if match(ln) {
			return ln
		}
	}
	return ""
}

// resolveHref makes a station link absolute against the page URL. The
// live site serves site-relative hrefs ("/station/123").
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
