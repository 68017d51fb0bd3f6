package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Email    EmailConfig    `yaml:"email"`
	Site     SiteConfig     `yaml:"site"`
	Push     PushConfig     `yaml:"push"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port                int     `yaml:"port"`
	RateLimitPerSec     float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst      int     `yaml:"rate_limit_burst"`
	ReadTimeoutSeconds  int     `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int     `yaml:"write_timeout_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// EmailConfig holds the outbound SMTP settings. An empty HostUser disables email.
type EmailConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	UseTLS       bool   `yaml:"use_tls"` // implicit TLS (port 465); STARTTLS is used whenever offered
	HostUser     string `yaml:"host_user"`
	HostPassword string `yaml:"host_password"`
}

// Enabled reports whether an outbound address is configured.
func (e EmailConfig) Enabled() bool {
	return e.HostUser != ""
}

// SiteConfig describes the public site.
type SiteConfig struct {
	HostName     string `yaml:"host_name"`
	Organization string `yaml:"organization"`
	Timezone     string `yaml:"timezone"`
}

// Location resolves the display time zone.
func (s SiteConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// PushConfig holds the VAPID keys for organizer web push alerts.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`

	// Bearer token organizer browsers present to manage subscriptions.
	SubscriptionToken string `yaml:"subscription_token"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads the configuration from the given path.
// ${VAR} placeholders are expanded from the environment before decoding.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("database.driver must be postgres or sqlite, got %q", cfg.Database.Driver)
	}
	if _, err := cfg.Site.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 2
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 15
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "homevisit.db"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Email.Port <= 0 {
		cfg.Email.Port = 587
	}

	if cfg.Site.HostName == "" {
		cfg.Site.HostName = "localhost"
	}
	if cfg.Site.Timezone == "" {
		cfg.Site.Timezone = "America/Los_Angeles"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
