package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("DATABASE_URL", "postgres://localhost/portal?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, 24*time.Hour, cfg.ReminderLead)
	assert.Equal(t, time.Hour, cfg.ReminderGrace)
	assert.True(t, cfg.Development())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL is required")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("REMINDER_LEAD", "2h")
	t.Setenv("STORAGE_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "parish-media")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Development())
	assert.Equal(t, 2*time.Hour, cfg.ReminderLead)
	assert.Equal(t, "parish-media", cfg.GCSBucket)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "ftp")

	_, err := Load()
	assert.Error(t, err)
}
