package contract

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/localcache/schema"
)

// Default values for configuration.
const (
	DefaultMaxEntries = schema.DefaultMaxEntries
	DefaultPrefix     = "localcache/"
	DefaultWidth      = 0
)

// Config holds the validated runtime configuration.
type Config struct {
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Bucket   string // s3 and gcs
	Prefix   string // object key prefix for s3 and gcs
	Region   string // s3 only
	Endpoint string // s3 only, e.g. a local minio

	QuotaBytes int // memory backend only, 0 = unlimited

	MaxEntries int
	Preserve   []string     // raw preserve values, kept for display
	Preserved  []KeyMatcher // matchers compiled from Preserve

	Output     schema.OutputMode
	OutputFile string
	Width      int  // Terminal width override (0 = auto-detect)
	UseColors  bool // Enable colored states in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Backend    string   `mapstructure:"backend"`
	DBConnect  string   `mapstructure:"db-connect"`
	Bucket     string   `mapstructure:"bucket"`
	Prefix     string   `mapstructure:"prefix"`
	Region     string   `mapstructure:"region"`
	Endpoint   string   `mapstructure:"endpoint"`
	QuotaBytes int      `mapstructure:"quota-bytes"`
	MaxEntries int      `mapstructure:"max-entries"`
	Preserve   []string `mapstructure:"preserve"`
	Output     string   `mapstructure:"output"`
	OutputFile string   `mapstructure:"output-file"`
	Width      int      `mapstructure:"width"`
	Color      string   `mapstructure:"color"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Preserve = slices.Clone(c.Preserve)
	clone.Preserved = slices.Clone(c.Preserved)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateBackend validates the minimal settings needed to open a store.
// It is used by commands that skip the full output configuration.
func ValidateBackend(cfg *Config, input *ConfigRawInput) error {
	return validateBackendConfig(cfg, input)
}

// validateBackendConfig validates the store backend and its connection settings.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.Backend)))
	if cfg.Backend == "" {
		cfg.Backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, memory, s3, gcs, none", input.Backend)
	}

	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect); err != nil {
		return err
	}

	cfg.Bucket = strings.TrimSpace(input.Bucket)
	cfg.Prefix = input.Prefix
	cfg.Region = input.Region
	cfg.Endpoint = input.Endpoint
	if cfg.Backend == schema.S3Backend || cfg.Backend == schema.GCSBackend {
		if cfg.Bucket == "" {
			return fmt.Errorf("bucket is required when using %s backend", cfg.Backend)
		}
		if cfg.Prefix == "" {
			cfg.Prefix = DefaultPrefix
		}
	}

	if input.QuotaBytes < 0 {
		return fmt.Errorf("quota-bytes cannot be negative (received %d)", input.QuotaBytes)
	}
	cfg.QuotaBytes = input.QuotaBytes
	return nil
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// --- 1. MaxEntries Validation ---
	switch {
	case input.MaxEntries < 0:
		return fmt.Errorf("max-entries must be greater than 0 (received %d)", input.MaxEntries)
	case input.MaxEntries == 0:
		cfg.MaxEntries = DefaultMaxEntries
	default:
		cfg.MaxEntries = input.MaxEntries
	}

	// --- 2. Preserved keys ---
	cfg.Preserve = slices.Clone(input.Preserve)
	cfg.Preserved = ParsePreserved(input.Preserve)

	// --- 3. Output Validation ---
	output := input.Output
	if output == "" {
		output = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(strings.ToLower(output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 4. Color ---
	color := input.Color
	if color == "" {
		color = "yes"
	}
	colors, err := ParseBoolString(color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	return nil
}
