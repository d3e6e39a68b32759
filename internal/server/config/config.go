// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthsync/internal/common"
)

// ConfigFileEnv names the environment variable consulted for the JSON
// config path when neither -c nor -config is given.
const ConfigFileEnv = "HEALTHSYNC_CONFIG"

// Config holds runtime settings for the healthsync server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP API.
//   - LogLevel / LogFormat: slog level name and "json" or "text".
//   - LogFile: optional rotating log file; stdout when empty.
//   - MaxBodyBytes: request body cap for all endpoints.
//   - ConnectTimeout: connection-establishment timeout for user stores.
//   - PullFloor: minimum look-back window applied to every pull.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	ListenAddr      string
	LogLevel        string
	LogFormat       string
	LogFile         string
	MaxBodyBytes    int64
	ConnectTimeout  time.Duration
	PullFloor       time.Duration
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.LogFile = ""
	c.MaxBodyBytes = 10 << 20
	c.ConnectTimeout = 10 * time.Second
	c.PullFloor = common.DefaultPullFloor
	c.ShutdownTimeout = 15 * time.Second
}

// Load builds a Config by applying defaults, then overlaying values from an
// optional JSON file and finally from command-line flags in args
// (typically os.Args[1:]).
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max body bytes must be positive, got %d", c.MaxBodyBytes))
	}
	if c.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("connect timeout must be positive, got %s", c.ConnectTimeout))
	}
	if c.PullFloor <= 0 {
		errs = append(errs, fmt.Errorf("pull floor must be positive, got %s", c.PullFloor))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must not be negative, got %s", c.ShutdownTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
