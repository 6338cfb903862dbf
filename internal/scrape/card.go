package scrape

import (
	"strings"

	"pumpwatch/internal/browser"
)

const (
	// maxCardDepth bounds the ancestor walk when locating a card.
	maxCardDepth = 12

	// maxCardTextLen rejects containers so large they must wrap more
	// than one station's display entry.
	maxCardTextLen = 1200
)

// findStationCard returns the closest enclosing container that wraps
// exactly one station link and shows a price. Candidates are scanned
// nearest to farthest so the first hit is the tightest card. When no
// candidate qualifies, the nearest ancestor is returned as a permissive
// fallback; nil means the link had no div ancestors at all.
func (s *Scraper) findStationCard(link browser.Element) (browser.Element, error) {
	ancestors, err := link.Ancestors(maxCardDepth)
	if err != nil {
		return nil, err
	}

	for _, cand := range ancestors {
		links, err := cand.Elements(s.cfg.StationSelector)
		if err != nil {
			return nil, err
		}
		if len(links) != 1 {
			continue
		}

		text, err := cand.Text()
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if strings.Contains(text, "$") && len(text) < maxCardTextLen {
			return cand, nil
		}
	}

	if len(ancestors) > 0 {
		return ancestors[0], nil
	}
	return nil, nil
}
