package config

import (
	"time"

	"pumpwatch/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for pumpwatch. It is built once at
// startup and passed by pointer; nothing mutates it after Load.
type Config struct {
	Cities   []CityConfig   `mapstructure:"cities"   yaml:"cities"`
	Grades   GradesConfig   `mapstructure:"grades"   yaml:"grades"`
	Scrape   ScrapeConfig   `mapstructure:"scrape"   yaml:"scrape"`
	Browser  BrowserConfig  `mapstructure:"browser"  yaml:"browser"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Supabase SupabaseConfig `mapstructure:"supabase" yaml:"supabase"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	Mongo    MongoConfig    `mapstructure:"mongo"    yaml:"mongo"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// CityConfig names one GasBuddy city listing page.
type CityConfig struct {
	Name    string `mapstructure:"name"    yaml:"name"`
	URL     string `mapstructure:"url"     yaml:"url"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// GradesConfig toggles which fuel grades a run collects.
type GradesConfig struct {
	Regular  bool `mapstructure:"regular"  yaml:"regular"`
	Midgrade bool `mapstructure:"midgrade" yaml:"midgrade"`
	Premium  bool `mapstructure:"premium"  yaml:"premium"`
	Diesel   bool `mapstructure:"diesel"   yaml:"diesel"`
}

// EnabledGrades returns the enabled grades in canonical order.
func (g GradesConfig) EnabledGrades() []types.Grade {
	var grades []types.Grade
	if g.Regular {
		grades = append(grades, types.GradeRegular)
	}
	if g.Midgrade {
		grades = append(grades, types.GradeMidgrade)
	}
	if g.Premium {
		grades = append(grades, types.GradePremium)
	}
	if g.Diesel {
		grades = append(grades, types.GradeDiesel)
	}
	return grades
}

// ScrapeConfig controls per-city extraction.
type ScrapeConfig struct {
	Limit              int           `mapstructure:"limit"                yaml:"limit"`
	StationSelector    string        `mapstructure:"station_selector"     yaml:"station_selector"`
	ProbeTimeout       time.Duration `mapstructure:"probe_timeout"        yaml:"probe_timeout"`
	PageTimeout        time.Duration `mapstructure:"page_timeout"         yaml:"page_timeout"`
	SwitchTimeout      time.Duration `mapstructure:"switch_timeout"       yaml:"switch_timeout"`
	PollInterval       time.Duration `mapstructure:"poll_interval"        yaml:"poll_interval"`
	IncludeUpdateTimes bool          `mapstructure:"include_update_times" yaml:"include_update_times"`
}

// BrowserConfig controls the Chrome instance behind the scraper.
type BrowserConfig struct {
	Headless      bool     `mapstructure:"headless"       yaml:"headless"`
	WindowWidth   int      `mapstructure:"window_width"   yaml:"window_width"`
	WindowHeight  int      `mapstructure:"window_height"  yaml:"window_height"`
	ChromePath    string   `mapstructure:"chrome_path"    yaml:"chrome_path"`
	BlockPatterns []string `mapstructure:"block_patterns" yaml:"block_patterns"`
}

// OutputConfig toggles sinks and names the file output directories.
type OutputConfig struct {
	JSON     bool   `mapstructure:"json"     yaml:"json"`
	CSV      bool   `mapstructure:"csv"      yaml:"csv"`
	Supabase bool   `mapstructure:"supabase" yaml:"supabase"`
	JSONDir  string `mapstructure:"json_dir" yaml:"json_dir"`
	CSVDir   string `mapstructure:"csv_dir"  yaml:"csv_dir"`
}

// SupabaseConfig holds the PostgREST upsert target. URL and key come
// from the environment in normal use (SUPABASE_URL, SUPABASE_KEY).
type SupabaseConfig struct {
	URL   string `mapstructure:"url"   yaml:"url"`
	Key   string `mapstructure:"key"   yaml:"key"`
	Table string `mapstructure:"table" yaml:"table"`
}

// PostgresConfig holds the direct-connection upsert target. When DSN is
// set it takes precedence over the Supabase REST sink.
type PostgresConfig struct {
	DSN   string `mapstructure:"dsn"   yaml:"dsn"`
	Table string `mapstructure:"table" yaml:"table"`
}

// MongoConfig holds the optional run archive target.
type MongoConfig struct {
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string     `mapstructure:"level"  yaml:"level"`
	Format string     `mapstructure:"format" yaml:"format"`
	Output string     `mapstructure:"output" yaml:"output"`
	File   FileConfig `mapstructure:"file"   yaml:"file"`
}

// FileConfig controls log file rotation when output is "file".
type FileConfig struct {
	Path       string `mapstructure:"path"         yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"  yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// EnabledCities returns the cities the run should visit, in config order.
func (c *Config) EnabledCities() []CityConfig {
	var cities []CityConfig
	for _, city := range c.Cities {
		if city.Enabled {
			cities = append(cities, city)
		}
	}
	return cities
}

// DefaultConfig returns a Config with sensible defaults: the southern
// California cities the project started with, all grades, Supabase
// upload on, file outputs off.
func DefaultConfig() *Config {
	return &Config{
		Cities: []CityConfig{
			{Name: "La Mirada", URL: "https://www.gasbuddy.com/gasprices/california/la-mirada", Enabled: true},
			{Name: "La Habra", URL: "https://www.gasbuddy.com/gasprices/california/la-habra", Enabled: true},
			{Name: "Whittier", URL: "https://www.gasbuddy.com/gasprices/california/whittier", Enabled: true},
			{Name: "Santa Fe Springs", URL: "https://www.gasbuddy.com/gasprices/california/santa-fe-springs", Enabled: true},
			{Name: "Buena Park", URL: "https://www.gasbuddy.com/gasprices/california/buena-park", Enabled: true},
			{Name: "Norwalk", URL: "https://www.gasbuddy.com/gasprices/california/norwalk", Enabled: true},
			{Name: "Cerritos", URL: "https://www.gasbuddy.com/gasprices/california/cerritos", Enabled: true},
			{Name: "Fullerton", URL: "https://www.gasbuddy.com/gasprices/california/fullerton", Enabled: true},
			{Name: "Brea", URL: "https://www.gasbuddy.com/gasprices/california/brea", Enabled: true},
			{Name: "Anaheim", URL: "https://www.gasbuddy.com/gasprices/california/anaheim", Enabled: true},
		},
		Grades: GradesConfig{
			Regular:  true,
			Midgrade: true,
			Premium:  true,
			Diesel:   true,
		},
		Scrape: ScrapeConfig{
			Limit:           30,
			StationSelector: `a[href^="/station/"]`,
			ProbeTimeout:    6 * time.Second,
			PageTimeout:     10 * time.Second,
			SwitchTimeout:   15 * time.Second,
			PollInterval:    500 * time.Millisecond,
		},
		Browser: BrowserConfig{
			Headless:     false,
			WindowWidth:  1400,
			WindowHeight: 900,
			BlockPatterns: []string{
				"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg",
				"*.css", "*.woff*", "*.ttf",
			},
		},
		Output: OutputConfig{
			JSON:     false,
			CSV:      false,
			Supabase: true,
			JSONDir:  "JSON Files",
			CSVDir:   "CSV Files",
		},
		Supabase: SupabaseConfig{
			Table: "gas_prices",
		},
		Postgres: PostgresConfig{
			Table: "gas_prices",
		},
		Mongo: MongoConfig{
			Database:   "pumpwatch",
			Collection: "runs",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
			File: FileConfig{
				Path:       "pumpwatch.log",
				MaxSizeMB:  20,
				MaxBackups: 3,
				MaxAgeDays: 14,
			},
		},
	}
}
