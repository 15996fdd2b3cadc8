package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// UpstreamConfig is the endpoint block for the upstream lease API.
type UpstreamConfig struct {
	BaseURL      string        `toml:"base_url"`
	APIKey       string        `toml:"api_key"`
	ServiceToken string        `toml:"service_token"`
	Timeout      time.Duration `toml:"-"`

	TimeoutSeconds int `toml:"timeout_seconds"`
}

// LoadUpstreamFile reads the upstream block from a TOML file:
//
//	[upstream]
//	base_url = "api.example.com"
//	api_key = "..."
//	timeout_seconds = 30
func LoadUpstreamFile(path string) (*UpstreamConfig, error) {
	var file struct {
		Upstream UpstreamConfig `toml:"upstream"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg := file.Upstream
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s: upstream.base_url is required", path)
	}
	cfg.Timeout = 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &cfg, nil
}
