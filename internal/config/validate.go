package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	enabled := cfg.EnabledCities()
	if len(enabled) == 0 {
		return fmt.Errorf("at least one city must be enabled")
	}
	for _, city := range enabled {
		if city.Name == "" {
			return fmt.Errorf("city with URL %q has no name", city.URL)
		}
		if err := ValidateURL(city.URL); err != nil {
			return fmt.Errorf("city %q: %w", city.Name, err)
		}
	}

	if len(cfg.Grades.EnabledGrades()) == 0 {
		return fmt.Errorf("at least one fuel grade must be enabled")
	}

	if cfg.Scrape.Limit < 1 {
		return fmt.Errorf("scrape.limit must be >= 1, got %d", cfg.Scrape.Limit)
	}
	if cfg.Scrape.StationSelector == "" {
		return fmt.Errorf("scrape.station_selector must not be empty")
	}
	if cfg.Scrape.ProbeTimeout <= 0 {
		return fmt.Errorf("scrape.probe_timeout must be > 0")
	}
	if cfg.Scrape.PageTimeout <= 0 {
		return fmt.Errorf("scrape.page_timeout must be > 0")
	}
	if cfg.Scrape.SwitchTimeout <= 0 {
		return fmt.Errorf("scrape.switch_timeout must be > 0")
	}
	if cfg.Scrape.PollInterval <= 0 {
		return fmt.Errorf("scrape.poll_interval must be > 0")
	}

	if cfg.Browser.WindowWidth < 1 || cfg.Browser.WindowHeight < 1 {
		return fmt.Errorf("browser.window dimensions must be >= 1, got %dx%d",
			cfg.Browser.WindowWidth, cfg.Browser.WindowHeight)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}
	switch cfg.Logging.Output {
	case "stderr", "stdout":
	case "file":
		if cfg.Logging.File.Path == "" {
			return fmt.Errorf("logging.file.path is required when logging.output is 'file'")
		}
	default:
		return fmt.Errorf("logging.output must be stderr/stdout/file, got %q", cfg.Logging.Output)
	}

	return nil
}

// ValidateURL checks that a URL is usable as a city listing page.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
