// Package config provides centralized configuration management for the seed tool.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Store drivers.
const (
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

// Store targets.
const (
	TargetEmulator   = "emulator"
	TargetProduction = "production"
)

// Config holds all seed tool configuration.
// All settings can be configured via environment variables.
type Config struct {
	Source  SourceConfig
	Store   StoreConfig
	Import  ImportConfig
	Geo     GeoConfig
	Maps    MapsConfig
	Logging LoggingConfig
}

// SourceConfig holds CSV source settings.
type SourceConfig struct {
	// DataDir is the directory holding the seed CSV files (default: seed/data)
	DataDir string `env:"SEED_DATA_DIR" envDefault:"seed/data"`

	// MaxFileSize is the maximum allowed CSV file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"SEED_MAX_FILE_SIZE" envDefault:"104857600"`
}

// StoreConfig holds document store connection settings.
type StoreConfig struct {
	// Driver selects the backend: firestore, postgres or memory (default: firestore)
	Driver string `env:"SEED_STORE" envDefault:"firestore"`

	// Target is emulator or production (default: emulator)
	Target string `env:"SEED_TARGET" envDefault:"emulator"`

	// ProjectID is the Firestore project (default: demo-test)
	ProjectID string `env:"FIRESTORE_PROJECT_ID" envDefault:"demo-test"`

	// EmulatorHost is the host:port of the local emulator (default: localhost:8080)
	EmulatorHost string `env:"FIRESTORE_EMULATOR_HOST" envDefault:"localhost:8080"`

	// CredentialsFile is an optional service account key for production
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	// DatabaseURL is the PostgreSQL connection string, required for the postgres driver
	DatabaseURL string `env:"DATABASE_URL"`

	// BatchSize is the maximum number of operations per atomic batch (default: 500)
	BatchSize int `env:"SEED_BATCH_SIZE" envDefault:"500"`

	// Timeout bounds connection setup (default: 30s)
	Timeout time.Duration `env:"SEED_STORE_TIMEOUT" envDefault:"30s"`
}

// ImportConfig holds orchestrator settings.
type ImportConfig struct {
	// WeekStart is the Monday orders are generated for, YYYY-MM-DD (default: current week)
	WeekStart string `env:"SEED_WEEK"`

	// AssignRatio is the share of orders given a sample assignment (default: 0)
	AssignRatio float64 `env:"SEED_ASSIGN_RATIO" envDefault:"0"`
}

// GeoConfig holds coordinate validation bounds and the office location.
type GeoConfig struct {
	MinLat float64 `env:"SEED_MIN_LAT" envDefault:"31.5"`
	MaxLat float64 `env:"SEED_MAX_LAT" envDefault:"31.7"`
	MinLng float64 `env:"SEED_MIN_LNG" envDefault:"130.4"`
	MaxLng float64 `env:"SEED_MAX_LNG" envDefault:"130.7"`

	// OfficeID is the location id of the office in travel_times (default: OFFICE)
	OfficeID  string  `env:"SEED_OFFICE_ID" envDefault:"OFFICE"`
	OfficeLat float64 `env:"SEED_OFFICE_LAT" envDefault:"31.5840"`
	OfficeLng float64 `env:"SEED_OFFICE_LNG" envDefault:"130.5413"`
}

// MapsConfig holds Distance Matrix client settings.
// Travel times fall back to the Haversine estimate when APIKey is empty.
type MapsConfig struct {
	APIKey     string        `env:"GOOGLE_MAPS_API_KEY"`
	BaseURL    string        `env:"GOOGLE_MAPS_BASE_URL" envDefault:"https://maps.googleapis.com"`
	Timeout    time.Duration `env:"GOOGLE_MAPS_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"GOOGLE_MAPS_MAX_RETRIES" envDefault:"3"`
	RetryWait  time.Duration `env:"GOOGLE_MAPS_RETRY_WAIT" envDefault:"1s"`

	// MaxConcurrent is the number of chunk requests in flight (default: 4)
	MaxConcurrent int `env:"GOOGLE_MAPS_MAX_CONCURRENT" envDefault:"4"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: console or json (default: console)
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Emulator reports whether the store targets the local emulator.
func (c *StoreConfig) Emulator() bool {
	return c.Target == TargetEmulator
}
