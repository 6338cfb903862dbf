package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flags are applied on top by the command layer.
func Load(configPath string) (*Config, error) {
	loadDotEnv()

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults from struct
	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("PUMPWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search default locations
		v.SetConfigName("pumpwatch")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".pumpwatch"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvCredentials(cfg)

	return cfg, nil
}

// loadDotEnv loads .env from the working directory, then next to the
// executable. Existing environment variables always win.
func loadDotEnv() {
	_ = godotenv.Load() // ignore missing file
	if exe, err := os.Executable(); err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exe), ".env")) // ignore missing file
	}
}

// applyEnvCredentials reads the credential variables the project has
// always used, unprefixed. Values already set via pumpwatch.yaml or
// PUMPWATCH_* stay.
func applyEnvCredentials(cfg *Config) {
	if v := os.Getenv("SUPABASE_URL"); v != "" && cfg.Supabase.URL == "" {
		cfg.Supabase.URL = v
	}
	if v := os.Getenv("SUPABASE_KEY"); v != "" && cfg.Supabase.Key == "" {
		cfg.Supabase.Key = v
	}
	if v := os.Getenv("SUPABASE_TABLE"); v != "" {
		cfg.Supabase.Table = v
	}
	if v := os.Getenv("SUPABASE_DB_URL"); v != "" && cfg.Postgres.DSN == "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" && cfg.Mongo.URI == "" {
		cfg.Mongo.URI = v
	}
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("cities", cfg.Cities)

	v.SetDefault("grades.regular", cfg.Grades.Regular)
	v.SetDefault("grades.midgrade", cfg.Grades.Midgrade)
	v.SetDefault("grades.premium", cfg.Grades.Premium)
	v.SetDefault("grades.diesel", cfg.Grades.Diesel)

	v.SetDefault("scrape.limit", cfg.Scrape.Limit)
	v.SetDefault("scrape.station_selector", cfg.Scrape.StationSelector)
	v.SetDefault("scrape.probe_timeout", cfg.Scrape.ProbeTimeout)
	v.SetDefault("scrape.page_timeout", cfg.Scrape.PageTimeout)
	v.SetDefault("scrape.switch_timeout", cfg.Scrape.SwitchTimeout)
	v.SetDefault("scrape.poll_interval", cfg.Scrape.PollInterval)
	v.SetDefault("scrape.include_update_times", cfg.Scrape.IncludeUpdateTimes)

	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.window_width", cfg.Browser.WindowWidth)
	v.SetDefault("browser.window_height", cfg.Browser.WindowHeight)
	v.SetDefault("browser.chrome_path", cfg.Browser.ChromePath)
	v.SetDefault("browser.block_patterns", cfg.Browser.BlockPatterns)

	v.SetDefault("output.json", cfg.Output.JSON)
	v.SetDefault("output.csv", cfg.Output.CSV)
	v.SetDefault("output.supabase", cfg.Output.Supabase)
	v.SetDefault("output.json_dir", cfg.Output.JSONDir)
	v.SetDefault("output.csv_dir", cfg.Output.CSVDir)

	v.SetDefault("supabase.table", cfg.Supabase.Table)
	v.SetDefault("postgres.table", cfg.Postgres.Table)

	v.SetDefault("mongo.database", cfg.Mongo.Database)
	v.SetDefault("mongo.collection", cfg.Mongo.Collection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
	v.SetDefault("logging.file.path", cfg.Logging.File.Path)
	v.SetDefault("logging.file.max_size_mb", cfg.Logging.File.MaxSizeMB)
	v.SetDefault("logging.file.max_backups", cfg.Logging.File.MaxBackups)
	v.SetDefault("logging.file.max_age_days", cfg.Logging.File.MaxAgeDays)
}
