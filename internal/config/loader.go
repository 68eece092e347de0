package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given .env files, overwriting existing variables.
// Missing files are skipped. Returns the number of files loaded.
func LoadDotEnv(files ...string) int {
	if len(files) == 0 {
		files = []string{".env"}
	}
	loaded := 0
	for _, f := range files {
		if err := godotenv.Overload(f); err == nil {
			loaded++
		}
	}
	return loaded
}

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Source validation
	if strings.TrimSpace(c.Source.DataDir) == "" {
		errs = append(errs, "SEED_DATA_DIR must not be empty")
	}
	if c.Source.MaxFileSize <= 0 {
		errs = append(errs, "SEED_MAX_FILE_SIZE must be positive")
	}

	// Store validation
	switch c.Store.Driver {
	case DriverFirestore:
		if c.Store.ProjectID == "" {
			errs = append(errs, "FIRESTORE_PROJECT_ID is required for the firestore store")
		}
		if c.Store.Emulator() && c.Store.EmulatorHost == "" {
			errs = append(errs, "FIRESTORE_EMULATOR_HOST is required in emulator mode")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres store")
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("SEED_STORE (%q) must be one of: firestore, postgres, memory", c.Store.Driver))
	}
	if c.Store.Target != TargetEmulator && c.Store.Target != TargetProduction {
		errs = append(errs, fmt.Sprintf("SEED_TARGET (%q) must be one of: emulator, production", c.Store.Target))
	}
	if c.Store.BatchSize <= 0 || c.Store.BatchSize > 500 {
		errs = append(errs, fmt.Sprintf("SEED_BATCH_SIZE (%d) must be 1-500", c.Store.BatchSize))
	}
	if c.Store.Timeout <= 0 {
		errs = append(errs, "SEED_STORE_TIMEOUT must be positive")
	}

	// Import validation
	if c.Import.WeekStart != "" {
		d, err := time.Parse(time.DateOnly, c.Import.WeekStart)
		if err != nil {
			errs = append(errs, fmt.Sprintf("SEED_WEEK (%q) must be a YYYY-MM-DD date", c.Import.WeekStart))
		} else if d.Weekday() != time.Monday {
			errs = append(errs, fmt.Sprintf("SEED_WEEK (%q) must be a Monday", c.Import.WeekStart))
		}
	}
	if c.Import.AssignRatio < 0 || c.Import.AssignRatio > 1 {
		errs = append(errs, fmt.Sprintf("SEED_ASSIGN_RATIO (%v) must be between 0 and 1", c.Import.AssignRatio))
	}

	// Geo validation
	if c.Geo.MinLat >= c.Geo.MaxLat {
		errs = append(errs, "SEED_MIN_LAT must be less than SEED_MAX_LAT")
	}
	if c.Geo.MinLng >= c.Geo.MaxLng {
		errs = append(errs, "SEED_MIN_LNG must be less than SEED_MAX_LNG")
	}
	if c.Geo.OfficeID == "" {
		errs = append(errs, "SEED_OFFICE_ID must not be empty")
	}

	// Maps validation
	if c.Maps.APIKey != "" {
		if _, err := url.ParseRequestURI(c.Maps.BaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("GOOGLE_MAPS_BASE_URL (%q) must be an absolute URL", c.Maps.BaseURL))
		}
	}
	if c.Maps.MaxRetries < 0 {
		errs = append(errs, "GOOGLE_MAPS_MAX_RETRIES must be non-negative")
	}
	if c.Maps.MaxConcurrent <= 0 {
		errs = append(errs, "GOOGLE_MAPS_MAX_CONCURRENT must be positive")
	}
	if c.Maps.Timeout <= 0 {
		errs = append(errs, "GOOGLE_MAPS_TIMEOUT must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: console, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and API keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Source: {DataDir: %q}, ", c.Source.DataDir))
	b.WriteString(fmt.Sprintf("Store: {Driver: %q, Target: %q, ProjectID: %q, EmulatorHost: %q, DatabaseURL: %s, BatchSize: %d}, ",
		c.Store.Driver, c.Store.Target, c.Store.ProjectID, c.Store.EmulatorHost, maskURL(c.Store.DatabaseURL), c.Store.BatchSize))
	b.WriteString(fmt.Sprintf("Import: {WeekStart: %q, AssignRatio: %v}, ", c.Import.WeekStart, c.Import.AssignRatio))
	b.WriteString(fmt.Sprintf("Maps: {APIKey: %s, Retries: %d}, ", mask(c.Maps.APIKey), c.Maps.MaxRetries))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return `""`
	}
	return "[MASKED]"
}

// maskURL hides the password of a connection URL but keeps host and database.
func maskURL(raw string) string {
	if raw == "" {
		return `""`
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[MASKED]"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
