package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowbrowser/internal/config"
	"rainbowbrowser/internal/session"
)

func TestLoad_MissingFileReturnsZeroValueConfig(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	bc := cfg.BrowserConfig()
	assert.Equal(t, session.DefaultBrowserConfig().ViewportWidth, bc.ViewportWidth)
	assert.Equal(t, session.DefaultBrowserConfig().ViewportHeight, bc.ViewportHeight)

	mc := cfg.ManagerConfig()
	assert.Equal(t, session.DefaultManagerConfig(), mc)
}

func TestLoad_OverridesApplyOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rainbowbrowser.yaml")
	content := `
browser:
  headless: false
  viewport_width: 800
  viewport_height: 600
  nav_timeout_ms: 15000
session:
  max_sessions: 25
retry:
  max_attempts: 2
  max_elapsed_sec: 10
concurrency:
  global_permits: 3
  batch_timeout_sec: 20
debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)

	bc := cfg.BrowserConfig()
	assert.False(t, bc.Headless)
	assert.Equal(t, 800, bc.ViewportWidth)
	assert.Equal(t, 600, bc.ViewportHeight)
	assert.Equal(t, 15*time.Second, bc.NavTimeout)

	mc := cfg.ManagerConfig()
	assert.Equal(t, 25, mc.MaxSessions)
	assert.Equal(t, session.DefaultManagerConfig().MaxBrowsers, mc.MaxBrowsers)

	maxAttempts, maxElapsed := cfg.RetryLimits()
	assert.Equal(t, 2, maxAttempts)
	assert.Equal(t, 10*time.Second, maxElapsed)

	permits, batchTimeout := cfg.ConcurrencyLimits()
	assert.Equal(t, int64(3), permits)
	assert.Equal(t, 20*time.Second, batchTimeout)
}

func TestLoad_ZeroRetryAndConcurrencyFieldsPassThroughAsZero(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	maxAttempts, maxElapsed := cfg.RetryLimits()
	assert.Equal(t, 0, maxAttempts)
	assert.Equal(t, time.Duration(0), maxElapsed)

	permits, batchTimeout := cfg.ConcurrencyLimits()
	assert.Equal(t, int64(0), permits)
	assert.Equal(t, time.Duration(0), batchTimeout)
}
