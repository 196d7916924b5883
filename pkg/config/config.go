// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the pipeline configuration
type Config struct {
	// Source files
	SalesFile   string
	StudentFile string

	// Export destination
	OutputDir string

	// ProcessingDate anchors the days-enrolled computation. Defaults to
	// today; settable for reproducible runs.
	ProcessingDate time.Time

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads pipeline configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		SalesFile:      getEnv("SALES_FILE", "sales_data.csv"),
		StudentFile:    getEnv("STUDENT_FILE", "student_data.csv"),
		OutputDir:      getEnv("OUTPUT_DIR", "output"),
		ProcessingDate: time.Now().UTC(),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	if raw := os.Getenv("PROCESSING_DATE"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PROCESSING_DATE %q: %w", raw, err)
		}
		cfg.ProcessingDate = date
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.SalesFile == "" {
		return errors.New("sales file path is required")
	}

	if c.StudentFile == "" {
		return errors.New("student file path is required")
	}

	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}

	return nil
}

// LoaderConfig represents the warehouse loader configuration
type LoaderConfig struct {
	Postgres *PostgresConfig

	// Schema is the target Postgres schema for the star schema tables
	Schema string

	// FreshStart drops and recreates the schema before loading
	FreshStart bool

	// InputDir is the directory holding the exported pipeline artifacts
	InputDir string
}

// LoadLoaderConfig loads loader configuration from environment variables
func LoadLoaderConfig() (*LoaderConfig, error) {
	pgConfig, err := LoadPostgresConfig()
	if err != nil {
		return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
	}

	cfg := &LoaderConfig{
		Postgres:   pgConfig,
		Schema:     getEnv("DB_SCHEMA", "dataeng_project"),
		FreshStart: getEnvAsBool("LOADER_FRESH_START", true),
		InputDir:   getEnv("OUTPUT_DIR", "output"),
	}

	return cfg, nil
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
