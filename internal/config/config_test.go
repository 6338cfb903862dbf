package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pumpwatch/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Cities) != 10 {
		t.Errorf("expected 10 default cities, got %d", len(cfg.Cities))
	}
	for _, city := range cfg.Cities {
		if !city.Enabled {
			t.Errorf("expected %s enabled by default", city.Name)
		}
		if !strings.HasPrefix(city.URL, "https://www.gasbuddy.com/gasprices/california/") {
			t.Errorf("unexpected URL for %s: %s", city.Name, city.URL)
		}
	}

	if got := len(cfg.Grades.EnabledGrades()); got != 4 {
		t.Errorf("expected all 4 grades enabled, got %d", got)
	}
	if cfg.Scrape.Limit != 30 {
		t.Errorf("expected default limit 30, got %d", cfg.Scrape.Limit)
	}
	if cfg.Scrape.ProbeTimeout != 6*time.Second || cfg.Scrape.PageTimeout != 10*time.Second {
		t.Errorf("unexpected default timeouts: %v / %v", cfg.Scrape.ProbeTimeout, cfg.Scrape.PageTimeout)
	}
	if !cfg.Output.Supabase || cfg.Output.JSON || cfg.Output.CSV {
		t.Errorf("expected supabase-only output by default, got %+v", cfg.Output)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEnabledCities(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cities[1].Enabled = false
	cfg.Cities[4].Enabled = false

	enabled := cfg.EnabledCities()
	if len(enabled) != 8 {
		t.Fatalf("expected 8 enabled cities, got %d", len(enabled))
	}
	for _, city := range enabled {
		if city.Name == "La Habra" || city.Name == "Buena Park" {
			t.Errorf("%s should be filtered out", city.Name)
		}
	}
}

func TestEnabledGradesOrder(t *testing.T) {
	g := GradesConfig{Regular: true, Midgrade: false, Premium: true, Diesel: true}
	got := g.EnabledGrades()
	want := []types.Grade{types.GradeRegular, types.GradePremium, types.GradeDiesel}

	if len(got) != len(want) {
		t.Fatalf("expected %d grades, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("grade %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(cfg *Config) {},
		},
		{
			name: "no enabled cities",
			mutate: func(cfg *Config) {
				for i := range cfg.Cities {
					cfg.Cities[i].Enabled = false
				}
			},
			wantErr: "at least one city",
		},
		{
			name:    "city URL without scheme",
			mutate:  func(cfg *Config) { cfg.Cities[0].URL = "www.gasbuddy.com/gasprices/california/la-mirada" },
			wantErr: "scheme",
		},
		{
			name:    "city without name",
			mutate:  func(cfg *Config) { cfg.Cities[2].Name = "" },
			wantErr: "no name",
		},
		{
			name:    "no enabled grades",
			mutate:  func(cfg *Config) { cfg.Grades = GradesConfig{} },
			wantErr: "fuel grade",
		},
		{
			name:    "zero limit",
			mutate:  func(cfg *Config) { cfg.Scrape.Limit = 0 },
			wantErr: "scrape.limit",
		},
		{
			name:    "empty selector",
			mutate:  func(cfg *Config) { cfg.Scrape.StationSelector = "" },
			wantErr: "station_selector",
		},
		{
			name:    "zero poll interval",
			mutate:  func(cfg *Config) { cfg.Scrape.PollInterval = 0 },
			wantErr: "poll_interval",
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name: "file output without path",
			mutate: func(cfg *Config) {
				cfg.Logging.Output = "file"
				cfg.Logging.File.Path = ""
			},
			wantErr: "logging.file.path",
		},
		{
			name:    "zero window width",
			mutate:  func(cfg *Config) { cfg.Browser.WindowWidth = 0 },
			wantErr: "browser.window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	yaml := `
cities:
  - name: Whittier
    url: https://www.gasbuddy.com/gasprices/california/whittier
    enabled: true
  - name: Norwalk
    url: https://www.gasbuddy.com/gasprices/california/norwalk
    enabled: false
scrape:
  limit: 5
  probe_timeout: 2s
output:
  json: true
  supabase: false
`
	path := filepath.Join(t.TempDir(), "pumpwatch.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if len(cfg.Cities) != 2 {
		t.Fatalf("expected the file city list to replace defaults, got %d cities", len(cfg.Cities))
	}
	if got := cfg.EnabledCities(); len(got) != 1 || got[0].Name != "Whittier" {
		t.Errorf("expected only Whittier enabled, got %v", got)
	}
	if cfg.Scrape.Limit != 5 {
		t.Errorf("expected limit 5 from file, got %d", cfg.Scrape.Limit)
	}
	if cfg.Scrape.ProbeTimeout != 2*time.Second {
		t.Errorf("expected probe timeout 2s from file, got %v", cfg.Scrape.ProbeTimeout)
	}
	if cfg.Scrape.PageTimeout != 10*time.Second {
		t.Errorf("expected untouched default page timeout, got %v", cfg.Scrape.PageTimeout)
	}
	if !cfg.Output.JSON || cfg.Output.Supabase {
		t.Errorf("expected file output toggles, got %+v", cfg.Output)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadAppliesEnvCredentials(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://demo.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
	t.Setenv("SUPABASE_TABLE", "prices_test")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if cfg.Supabase.URL != "https://demo.supabase.co" || cfg.Supabase.Key != "service-key" {
		t.Errorf("expected supabase credentials from env, got %+v", cfg.Supabase)
	}
	if cfg.Supabase.Table != "prices_test" {
		t.Errorf("expected table override from env, got %q", cfg.Supabase.Table)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("expected mongo URI from env, got %q", cfg.Mongo.URI)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PUMPWATCH_SCRAPE_LIMIT", "12")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Scrape.Limit != 12 {
		t.Errorf("expected limit 12 from PUMPWATCH_SCRAPE_LIMIT, got %d", cfg.Scrape.Limit)
	}
}
