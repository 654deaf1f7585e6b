package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.False(t, cfg.Strict)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Sigilfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigilfile.yaml")
	content := `strict: true
workers: 8
format: json
cache:
  enabled: true
  ttl: 1h
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigilfile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.Equal(t, 4, cfg.Workers, "unset keys keep their defaults")
	assert.Equal(t, "text", cfg.Format)
}
