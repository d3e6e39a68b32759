package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/healthsync/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config file.
type JsonConfig struct {
	ServerURL string          `json:"server_url"`
	Timeout   *timex.Duration `json:"timeout"`
	StoreType string          `json:"store_type"`
}

func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.StoreType != "" {
		cfg.StoreType = jc.StoreType
	}
	return nil
}
