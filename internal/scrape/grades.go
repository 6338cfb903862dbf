package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pumpwatch/internal/browser"
	"pumpwatch/internal/types"
)

// fuelTypeSelector locates the page's grade selection control.
const fuelTypeSelector = "#fuelType"

// Scripts run inside the page to drive the grade selector. The change
// event must bubble or the page's own listeners never fire.
const (
	setFuelTypeJS = `(value) => {
		const sel = document.getElementById('fuelType');
		sel.value = value;
		sel.dispatchEvent(new Event('change', { bubbles: true }));
	}`
	getFuelTypeJS = `() => {
		const sel = document.getElementById('fuelType');
		return sel ? sel.value : '';
	}`
)

// priceProbeX matches any element whose normalized text starts with a
// dollar sign.
const priceProbeX = `//*[starts-with(normalize-space(.), '$')]`

// switchGrade drives the page's selector control to the given grade
// and blocks until the page shows data for it. Each wait phase gets the
// full switch timeout. A failure here fails the whole city.
func (s *Scraper) switchGrade(ctx context.Context, sess browser.Session, grade types.Grade) error {
	value := grade.SelectValue()

	if err := sess.WaitFor(ctx, fuelTypeSelector, s.cfg.SwitchTimeout); err != nil {
		return &types.SwitchError{Grade: grade, Err: err}
	}

	before := firstPriceText(sess)

	if _, err := sess.Eval(setFuelTypeJS, value); err != nil {
		return &types.SwitchError{Grade: grade, Err: err}
	}

	// The control must reflect the new value before data waits start.
	err := s.waitUntil(ctx, func() bool {
		v, evalErr := sess.Eval(getFuelTypeJS)
		return evalErr == nil && v == value
	})
	if err != nil {
		return &types.SwitchError{Grade: grade, Err: fmt.Errorf("control stuck before %q: %w", value, err)}
	}

	// Data is ready when station links exist and either any price is
	// visible or the first visible price moved off its pre-switch
	// value. Two grades can legitimately share a price, so "visible"
	// alone satisfies the check; the change comparison only helps when
	// the page re-renders slowly.
	err = s.waitUntil(ctx, func() bool {
		links, qerr := sess.Elements(s.cfg.StationSelector)
		if qerr != nil || len(links) == 0 {
			return false
		}
		fp := firstPriceText(sess)
		hasPrice := fp != ""
		changed := before != "" && fp != "" && fp != before
		return hasPrice || changed
	})
	if err != nil {
		return &types.SwitchError{Grade: grade, Err: err}
	}

	s.logger.Debug("grade selected", "grade", grade, "value", value)
	return nil
}

// firstPriceText returns the first price-looking string visible on the
// page, or "".
func firstPriceText(sess browser.Session) string {
	els, err := sess.ElementsX(priceProbeX)
	if err != nil {
		return ""
	}
	for _, el := range els {
		text, terr := el.Text()
		if terr != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if strings.HasPrefix(text, "$") {
			return text
		}
	}
	return ""
}

// waitUntil polls cond at the configured interval until it holds, the
// switch timeout elapses, or ctx is canceled.
func (s *Scraper) waitUntil(ctx context.Context, cond func() bool) error {
	deadline := time.Now().Add(s.cfg.SwitchTimeout)
	for {
		if cond() {
			return nil
		}
		if time.Now().After(deadline) {
			return types.ErrWaitTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.PollInterval):
		}
	}
}
