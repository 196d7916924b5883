package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"SALES_FILE", "STUDENT_FILE", "OUTPUT_DIR", "LOG_LEVEL", "LOG_FORMAT", "PROCESSING_DATE"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sales_data.csv", cfg.SalesFile)
	assert.Equal(t, "student_data.csv", cfg.StudentFile)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.ProcessingDate.IsZero())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SALES_FILE", "/data/sales.csv")
	t.Setenv("PROCESSING_DATE", "2025-06-01")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/data/sales.csv", cfg.SalesFile)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), cfg.ProcessingDate)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigBadProcessingDate(t *testing.T) {
	t.Setenv("PROCESSING_DATE", "06/01/2025")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadLoaderConfig(t *testing.T) {
	t.Setenv("POSTGRES_USER", "etl")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "warehouse")
	t.Setenv("LOADER_FRESH_START", "false")

	cfg, err := LoadLoaderConfig()
	require.NoError(t, err)

	assert.Equal(t, "dataeng_project", cfg.Schema)
	assert.False(t, cfg.FreshStart)
	assert.Equal(t, "output", cfg.InputDir)
	assert.Contains(t, cfg.Postgres.ConnectionString(), "dbname=warehouse")
	assert.Equal(t, 5432, cfg.Postgres.Port)
}

func TestLoadLoaderConfigRequiresCredentials(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "warehouse")

	_, err := LoadLoaderConfig()
	assert.Error(t, err)
}
