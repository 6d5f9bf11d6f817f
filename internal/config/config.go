package config

import "time"

// Config holds runtime settings for the store admin console.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API (no trailing slash).
//   - RequestTimeout: per-request timeout for API calls.
//   - DatabasePath: sqlite file holding the persisted session.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3000"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "storeadmin.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
