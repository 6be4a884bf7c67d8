// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source types accepted by DQ_SOURCE_TYPE
const (
	SourcePostgres  = "postgres"
	SourceSnowflake = "snowflake"
)

// DefaultTables maps catalog aliases to the raw tables they are read from
var DefaultTables = []TableMapping{
	{Alias: "staff", Table: "staff_raw"},
	{Alias: "patients", Table: "patients_raw"},
	{Alias: "consultations", Table: "consultations_raw"},
	{Alias: "staff_schedule", Table: "staff_schedule_raw"},
	{Alias: "services_weekly", Table: "services_weekly_raw"},
}

// TableMapping binds a dataset alias to a source table
type TableMapping struct {
	Alias string
	Table string
}

// Config represents the application configuration
type Config struct {
	// Data source
	SourceType string
	Postgres   *PostgresConfig
	Snowflake  *SnowflakeConfig
	Tables     []TableMapping

	// Output locations
	ResultsDir string
	ReportsDir string
	DataDir    string

	// Optional Postgres table receiving every run's metrics
	HistoryTable string

	// Rule thresholds
	TimelinessEpoch time.Time

	// Exit code policy, see pipeline.ExitCode
	Strict bool

	QueryTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		SourceType:   strings.ToLower(getEnv("DQ_SOURCE_TYPE", SourcePostgres)),
		ResultsDir:   getEnv("RESULTS_DIR", "/app/results"),
		ReportsDir:   getEnv("REPORTS_DIR", "/app/reports"),
		DataDir:      os.Getenv("DATA_DIR"),
		HistoryTable: getEnv("HISTORY_TABLE", ""),
		Strict:       getEnvAsBool("DQ_STRICT", false),
		QueryTimeout: time.Duration(getEnvAsInt("QUERY_TIMEOUT_SECONDS", 300)) * time.Second,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
	}
	if _, set := os.LookupEnv("DATA_DIR"); !set {
		cfg.DataDir = "/data"
	}

	epoch, err := time.Parse("2006-01-02", getEnv("TIMELINESS_EPOCH", "2020-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMELINESS_EPOCH: %w", err)
	}
	cfg.TimelinessEpoch = epoch

	tables, err := parseTableMappings(os.Getenv("DQ_TABLES"))
	if err != nil {
		return nil, err
	}
	cfg.Tables = tables

	switch cfg.SourceType {
	case SourcePostgres:
		cfg.Postgres = LoadPostgresConfig()
	case SourceSnowflake:
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, errors.New("failed to load Snowflake configuration: " + err.Error())
		}
		cfg.Snowflake = snowConfig
	}

	// HISTORY_TABLE lives in Postgres even when the source is Snowflake
	if cfg.HistoryTable != "" && cfg.Postgres == nil {
		cfg.Postgres = LoadPostgresConfig()
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.SourceType {
	case SourcePostgres:
		if c.Postgres == nil || c.Postgres.URL == "" {
			return errors.New("postgres source requires DATABASE_URL")
		}
	case SourceSnowflake:
		if c.Snowflake == nil {
			return errors.New("snowflake configuration is required")
		}
	default:
		return fmt.Errorf("unknown source type %q (expected %s or %s)", c.SourceType, SourcePostgres, SourceSnowflake)
	}

	if c.ResultsDir == "" {
		return errors.New("results directory is required")
	}

	if c.ReportsDir == "" {
		return errors.New("reports directory is required")
	}

	if len(c.Tables) == 0 {
		return errors.New("at least one table mapping is required")
	}

	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}

	return nil
}

// parseTableMappings reads "alias=table" pairs, falling back to DefaultTables.
// Aliases not mentioned keep their default table.
func parseTableMappings(value string) ([]TableMapping, error) {
	tables := make([]TableMapping, len(DefaultTables))
	copy(tables, DefaultTables)
	if strings.TrimSpace(value) == "" {
		return tables, nil
	}

	for _, pair := range splitCommaDelimited(value) {
		if pair == "" {
			continue
		}
		alias, table, ok := strings.Cut(pair, "=")
		alias, table = strings.TrimSpace(alias), strings.TrimSpace(table)
		if !ok || alias == "" || table == "" {
			return nil, fmt.Errorf("invalid DQ_TABLES entry %q (expected alias=table)", pair)
		}

		replaced := false
		for i := range tables {
			if tables[i].Alias == alias {
				tables[i].Table = table
				replaced = true
			}
		}
		if !replaced {
			tables = append(tables, TableMapping{Alias: alias, Table: table})
		}
	}
	return tables, nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// splitCommaDelimited splits on commas and trims whitespace around each part
func splitCommaDelimited(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
