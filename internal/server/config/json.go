package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/healthsync/internal/flagx"
	"github.com/dmitrijs2005/healthsync/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Duration
// fields accept "10s"-style strings or integer nanoseconds. Absent fields
// leave the current value untouched.
type JsonConfig struct {
	ListenAddr      string          `json:"listen_addr"`
	LogLevel        string          `json:"log_level"`
	LogFormat       string          `json:"log_format"`
	LogFile         string          `json:"log_file"`
	MaxBodyBytes    int64           `json:"max_body_bytes"`
	ConnectTimeout  *timex.Duration `json:"connect_timeout"`
	PullFloor       *timex.Duration `json:"pull_floor"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the JSON file selected with -c/-config
// (or HEALTHSYNC_CONFIG). No file selected means no changes.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args, ConfigFileEnv)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.ListenAddr != "" {
		config.ListenAddr = c.ListenAddr
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	if c.LogFile != "" {
		config.LogFile = c.LogFile
	}
	if c.MaxBodyBytes > 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
	if c.ConnectTimeout != nil {
		config.ConnectTimeout = c.ConnectTimeout.Duration
	}
	if c.PullFloor != nil {
		config.PullFloor = c.PullFloor.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}
