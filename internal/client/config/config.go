// Package config holds the healthsync CLI settings.
package config

import "time"

const (
	// ConfigFileEnv selects a JSON config file when --config is not given.
	ConfigFileEnv = "HEALTHSYNC_CLIENT_CONFIG"
	// ConnectionStringEnv supplies the store connection string.
	ConnectionStringEnv = "HEALTHSYNC_CONNECTION_STRING"
	// ServerEnv overrides the server base URL.
	ServerEnv = "HEALTHSYNC_SERVER"
)

// Config holds runtime settings for the CLI.
//
// ConnectionString is never read from the JSON file; it comes from the
// environment, a flag, or an interactive prompt.
type Config struct {
	ServerURL        string
	Timeout          time.Duration
	StoreType        string
	ConnectionString string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Timeout = 60 * time.Second
	c.StoreType = "postgresql"
}

// Load applies defaults, then the JSON file at path (if any), then the
// environment looked up through getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		path = getenv(ConfigFileEnv)
	}
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	parseEnv(cfg, getenv)
	return cfg, nil
}

func parseEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(ServerEnv); v != "" {
		cfg.ServerURL = v
	}
	if v := getenv(ConnectionStringEnv); v != "" {
		cfg.ConnectionString = v
	}
}
