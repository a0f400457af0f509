package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 90, cfg.Analytics.RetentionDays)
	assert.Equal(t, "noop", cfg.Analytics.Mirror.Type)
	assert.Equal(t, 4, cfg.Tickets.BulkDeleteConcurrency)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: sqlite
  path: /var/lib/guildkeeper/bot.db
analytics:
  retention_days: 30
  mirror:
    type: kafka
    kafka_brokers: ["kafka-1:9092"]
`), 0o600))
	t.Setenv("GUILDKEEPER_ANALYTICS_RETENTION_DAYS", "45")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/guildkeeper/bot.db", cfg.Database.Path)
	assert.Equal(t, 45, cfg.Analytics.RetentionDays)
	assert.Equal(t, "kafka", cfg.Analytics.Mirror.Type)
	assert.Equal(t, []string{"kafka-1:9092"}, cfg.Analytics.Mirror.KafkaBrokers)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GUILDKEEPER_DATABASE_DRIVER", "postgres")

	_, err := Load("")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
