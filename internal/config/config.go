// Package config loads wlandoctor settings. A YAML file provides the base,
// MIST_* environment variables and an optional .env file override it, and the
// CLI applies its flags last.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "https://api.mist.com/api/v1"
	DefaultTimeoutSec     = 30
	DefaultMaxRetries     = 3
	DefaultBackoffFactor  = 1.0
	DefaultRateLimit      = 5.0
	DefaultCallTimeoutSec = 10
	DefaultPingCount      = 10
	DefaultPingIntervalMs = 200
	DefaultDisconnectMin  = 5
	DefaultLogLevel       = "info"
)

var ErrMissingToken = errors.New("api token is required (set MIST_API_TOKEN or --token)")

// Config is the on-disk configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Probe ProbeConfig `yaml:"probe"`
	Log   LogConfig   `yaml:"log"`
}

// APIConfig configures the management API client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Host is a shortcut for regional clouds, e.g. api.eu.mist.com. It is
	// ignored when BaseURL is set.
	Host          string  `yaml:"host,omitempty"`
	Token         string  `yaml:"token"`
	OrgID         string  `yaml:"org_id"`
	TimeoutSec    int     `yaml:"timeout_sec"`
	CallTimeout   int     `yaml:"call_timeout_sec"`
	MaxRetries    int     `yaml:"max_retries"`
	BackoffFactor float64 `yaml:"backoff_factor"`
	RateLimit     float64 `yaml:"rate_limit"`
}

// ProbeConfig configures the local network probes.
type ProbeConfig struct {
	PingCount      int      `yaml:"ping_count"`
	PingIntervalMs int      `yaml:"ping_interval_ms"`
	DisconnectMin  int      `yaml:"disconnect_window_min"`
	DNSTargets     []string `yaml:"dns_targets,omitempty"`
	WANTarget      string   `yaml:"wan_target,omitempty"`
	STUNServers    []string `yaml:"stun_servers,omitempty"`
	SkipUDPCheck   bool     `yaml:"skip_udp_check"`
}

// LogConfig selects the log level and the optional session log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	ApplyDefaults(&cfg)
	return cfg, nil
}

// Save writes a YAML config file to disk. The file holds a token, so it is
// created owner-readable only.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks the settings needed to talk to the API.
func Validate(cfg Config) error {
	if cfg.API.Token == "" {
		return ErrMissingToken
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not an http(s) URL", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSec <= 0 {
		return fmt.Errorf("api.timeout_sec must be positive")
	}
	if cfg.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}
	if cfg.API.BackoffFactor < 0 {
		return fmt.Errorf("api.backoff_factor must not be negative")
	}
	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	if cfg.Probe.PingCount <= 0 {
		return fmt.Errorf("probe.ping_count must be positive")
	}
	return nil
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		if host := strings.TrimSpace(cfg.API.Host); host != "" {
			cfg.API.BaseURL = "https://" + strings.TrimSuffix(host, "/") + "/api/v1"
		} else {
			cfg.API.BaseURL = DefaultBaseURL
		}
	}
	if cfg.API.TimeoutSec == 0 {
		cfg.API.TimeoutSec = DefaultTimeoutSec
	}
	if cfg.API.CallTimeout == 0 {
		cfg.API.CallTimeout = DefaultCallTimeoutSec
	}
	if cfg.API.MaxRetries == 0 {
		cfg.API.MaxRetries = DefaultMaxRetries
	}
	if cfg.API.BackoffFactor == 0 {
		cfg.API.BackoffFactor = DefaultBackoffFactor
	}
	if cfg.API.RateLimit == 0 {
		cfg.API.RateLimit = DefaultRateLimit
	}

	if cfg.Probe.PingCount == 0 {
		cfg.Probe.PingCount = DefaultPingCount
	}
	if cfg.Probe.PingIntervalMs == 0 {
		cfg.Probe.PingIntervalMs = DefaultPingIntervalMs
	}
	if cfg.Probe.DisconnectMin == 0 {
		cfg.Probe.DisconnectMin = DefaultDisconnectMin
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

// Timeout is the HTTP client timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// CallTimeoutDuration bounds a single fetch including retries.
func (c APIConfig) CallTimeoutDuration() time.Duration {
	return time.Duration(c.CallTimeout) * time.Second
}

// Backoff is the initial retry delay.
func (c APIConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffFactor * float64(time.Second))
}

// PingInterval is the delay between echo requests.
func (c ProbeConfig) PingInterval() time.Duration {
	return time.Duration(c.PingIntervalMs) * time.Millisecond
}

// DisconnectWindow is the look-back window for the disconnect count.
func (c ProbeConfig) DisconnectWindow() time.Duration {
	return time.Duration(c.DisconnectMin) * time.Minute
}
