package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"pumpwatch/internal/config"
	"pumpwatch/internal/types"
)

// RodFactory drives a real Chromium instance via Rod. One factory owns
// one browser process; sessions are stealth-patched pages inside it.
type RodFactory struct {
	browser *rod.Browser
	cfg     *config.BrowserConfig
	logger  *slog.Logger
}

// NewRodFactory launches Chromium and connects to it.
func NewRodFactory(cfg *config.BrowserConfig, logger *slog.Logger) (*RodFactory, error) {
	f := &RodFactory{
		cfg:    cfg,
		logger: logger.With("component", "browser"),
	}

	launchURL, err := f.launchBrowser()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	f.browser = browser

	f.logger.Info("browser ready",
		"headless", cfg.Headless,
		"window", fmt.Sprintf("%dx%d", cfg.WindowWidth, cfg.WindowHeight),
	)

	return f, nil
}

// launchBrowser starts a Chromium instance with appropriate flags.
func (f *RodFactory) launchBrowser() (string, error) {
	l := launcher.New().
		Headless(f.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Set("window-size", fmt.Sprintf("%d,%d", f.cfg.WindowWidth, f.cfg.WindowHeight))

	if f.cfg.ChromePath != "" {
		l = l.Bin(f.cfg.ChromePath)
	}

	return l.Launch()
}

// NewSession opens a fresh stealth page. Requests matching the
// configured block patterns (images, fonts, styles) never leave the
// browser, which keeps page loads fast on listing pages.
func (f *RodFactory) NewSession(ctx context.Context) (Session, error) {
	page, err := stealth.Page(f.browser)
	if err != nil {
		return nil, fmt.Errorf("stealth page: %w", err)
	}
	page = page.Context(ctx)

	if len(f.cfg.BlockPatterns) > 0 {
		if err := (proto.NetworkEnable{}).Call(page); err != nil {
			f.logger.Warn("network domain unavailable", "error", err)
		} else if err := (proto.NetworkSetBlockedURLs{Urls: f.cfg.BlockPatterns}).Call(page); err != nil {
			f.logger.Warn("request blocking unavailable", "error", err)
		}
	}

	return &rodSession{page: page, logger: f.logger}, nil
}

// Close shuts down the browser process.
func (f *RodFactory) Close() error {
	if f.browser == nil {
		return nil
	}
	return f.browser.Close()
}

type rodSession struct {
	page   *rod.Page
	logger *slog.Logger
	url    string
}

func (s *rodSession) Navigate(ctx context.Context, pageURL string) error {
	if err := s.page.Context(ctx).Navigate(pageURL); err != nil {
		return &types.NavigationError{URL: pageURL, Err: err}
	}
	s.url = pageURL
	return nil
}

func (s *rodSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	page := s.page.Context(ctx).Timeout(timeout)
	if _, err := page.Element(selector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &types.WaitError{Selector: selector, Timeout: timeout}
		}
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (s *rodSession) Elements(selector string) ([]Element, error) {
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out, nil
}

func (s *rodSession) ElementsX(expr string) ([]Element, error) {
	els, err := s.page.ElementsX(expr)
	if err != nil {
		return nil, fmt.Errorf("query xpath %q: %w", expr, err)
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out, nil
}

func (s *rodSession) Eval(script string, args ...any) (string, error) {
	res, err := s.page.Eval(script, args...)
	if err != nil {
		return "", fmt.Errorf("eval: %w", err)
	}
	return res.Value.Str(), nil
}

// URL prefers the page's own idea of its location, which reflects
// redirects; the last navigated URL is the fallback.
func (s *rodSession) URL() string {
	if info, err := s.page.Info(); err == nil && info.URL != "" && info.URL != "about:blank" {
		return info.URL
	}
	return s.url
}

func (s *rodSession) Close() error {
	return s.page.Close()
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attr(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *rodElement) Elements(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out, nil
}

// Ancestors queries the ancestor axis, which yields document order
// (outermost first), and reverses it to honor the nearest-first
// contract.
func (e *rodElement) Ancestors(limit int) ([]Element, error) {
	els, err := e.el.ElementsX(fmt.Sprintf("ancestor::div[position() <= %d]", limit))
	if err != nil {
		return nil, fmt.Errorf("query ancestors: %w", err)
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[len(els)-1-i] = &rodElement{el: el}
	}
	return out, nil
}
