// Package config loads the engine's YAML-driven tunables: zero-value
// fields fall back to the documented defaults rather than erroring.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"rainbowbrowser/internal/session"
)

// Config is the top-level tunables document. Every field is optional
// in YAML; Load leaves absent fields at their zero value, and the
// translator methods below apply the defaults.
type Config struct {
	Browser struct {
		DebuggerURL    string   `yaml:"debugger_url"`
		Launch         []string `yaml:"launch"`
		Headless       bool     `yaml:"headless"`
		ViewportWidth  int      `yaml:"viewport_width"`
		ViewportHeight int      `yaml:"viewport_height"`
		NavTimeoutMs   int      `yaml:"nav_timeout_ms"`
	} `yaml:"browser"`

	Session struct {
		CleanupIntervalSec int `yaml:"cleanup_interval_sec"`
		SessionTimeoutSec  int `yaml:"session_timeout_sec"`
		MaxSessions        int `yaml:"max_sessions"`
		MaxBrowsers        int `yaml:"max_browsers"`
	} `yaml:"session"`

	Concurrency struct {
		GlobalPermits    int `yaml:"global_permits"`
		BatchTimeoutSec  int `yaml:"batch_timeout_sec"`
	} `yaml:"concurrency"`

	Retry struct {
		MaxAttempts    int `yaml:"max_attempts"`
		MaxElapsedSec  int `yaml:"max_elapsed_sec"`
	} `yaml:"retry"`

	Debug bool `yaml:"debug"`
}

// Load reads and parses a YAML config file. A missing file is not an
// error — the zero-value Config is returned, which the translator
// methods turn into all-default settings.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// BrowserConfig translates the YAML document into session.BrowserConfig,
// applying defaults for any zero field.
func (c Config) BrowserConfig() session.BrowserConfig {
	d := session.DefaultBrowserConfig()
	bc := session.BrowserConfig{
		DebuggerURL:    c.Browser.DebuggerURL,
		Launch:         c.Browser.Launch,
		Headless:       c.Browser.Headless,
		ViewportWidth:  c.Browser.ViewportWidth,
		ViewportHeight: c.Browser.ViewportHeight,
		NavTimeout:     d.NavTimeout,
	}
	if bc.ViewportWidth == 0 {
		bc.ViewportWidth = d.ViewportWidth
	}
	if bc.ViewportHeight == 0 {
		bc.ViewportHeight = d.ViewportHeight
	}
	if c.Browser.NavTimeoutMs > 0 {
		bc.NavTimeout = time.Duration(c.Browser.NavTimeoutMs) * time.Millisecond
	}
	return bc
}

// ManagerConfig translates the YAML document into session.ManagerConfig.
func (c Config) ManagerConfig() session.ManagerConfig {
	d := session.DefaultManagerConfig()
	mc := d
	if c.Session.CleanupIntervalSec > 0 {
		mc.CleanupInterval = time.Duration(c.Session.CleanupIntervalSec) * time.Second
	}
	if c.Session.SessionTimeoutSec > 0 {
		mc.SessionTimeout = time.Duration(c.Session.SessionTimeoutSec) * time.Second
	}
	if c.Session.MaxSessions > 0 {
		mc.MaxSessions = c.Session.MaxSessions
	}
	if c.Session.MaxBrowsers > 0 {
		mc.MaxBrowsers = c.Session.MaxBrowsers
	}
	return mc
}

// RetryLimits translates the YAML document into the retry mechanism's
// global stop conditions. Zero fields are returned as zero, and the
// retry package substitutes its own documented defaults for them (the
// retry package, not config, owns what those defaults are).
func (c Config) RetryLimits() (maxAttempts int, maxElapsed time.Duration) {
	maxAttempts = c.Retry.MaxAttempts
	if c.Retry.MaxElapsedSec > 0 {
		maxElapsed = time.Duration(c.Retry.MaxElapsedSec) * time.Second
	}
	return maxAttempts, maxElapsed
}

// ConcurrencyLimits translates the YAML document into the Concurrent
// Controller's global semaphore permits and per-batch timeout.
func (c Config) ConcurrencyLimits() (permits int64, batchTimeout time.Duration) {
	permits = int64(c.Concurrency.GlobalPermits)
	if c.Concurrency.BatchTimeoutSec > 0 {
		batchTimeout = time.Duration(c.Concurrency.BatchTimeoutSec) * time.Second
	}
	return permits, batchTimeout
}
