// Package config loads runtime settings for the authctl CLI. Values come
// from defaults, then an optional JSON file, then command-line flags, with
// later sources taking precedence.
package config

import "time"

// Config holds runtime settings for the authctl CLI.
type Config struct {
	// ServerEndpointAddr is the base URL of the passport server,
	// e.g. "http://127.0.0.1:8080".
	ServerEndpointAddr string

	// RequestTimeout bounds every HTTP call made by the client.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
