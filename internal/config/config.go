// Package config handles loading and validating the application
// configuration from a YAML file with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/mfinch/furniture-watch/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Database DatabaseConfig `yaml:"database"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Pushover PushoverConfig `yaml:"pushover"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SiteConfig defines the marketplace site being scraped.
type SiteConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
	// RequestsPerSecond throttles category page fetches. The target is a
	// small charity site; keep this low.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// DatabaseConfig defines the local SQLite store.
type DatabaseConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// AlertsConfig defines which items trigger notifications and how fast
// they are dispatched.
type AlertsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Categories lists the product types swept for unalerted items.
	// The original deployment watched sofas only.
	Categories []string `yaml:"categories"`
	// NotifyDelay is the fixed pause between consecutive notifications,
	// a courtesy throttle toward the push provider.
	NotifyDelay time.Duration `yaml:"notify_delay"`
}

// PushoverConfig defines the push notification credentials and endpoint.
// Token and User normally arrive via ${PUSHOVER_TOKEN} / ${PUSHOVER_USER}
// substitution.
type PushoverConfig struct {
	Token  string `yaml:"token"`
	User   string `yaml:"user"`
	APIURL string `yaml:"api_url"`
}

// MetricsConfig defines optional Pushgateway reporting. A one-shot job
// has nothing to scrape, so metrics are pushed at the end of the run
// when a gateway URL is set.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment
// variable substitution, applying defaults, and validating. Validation
// failures are fatal by design: a missing credential must stop the run
// before any scraping happens.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// WatchedCategories returns the alert categories as domain values.
// Config is validated at load time, so this never fails afterwards.
func (c *Config) WatchedCategories() []domain.Category {
	out := make([]domain.Category, 0, len(c.Alerts.Categories))
	for _, s := range c.Alerts.Categories {
		cat, err := domain.ParseCategory(s)
		if err != nil {
			continue
		}
		out = append(out, cat)
	}
	return out
}

func applyDefaults(cfg *Config) {
	applySiteDefaults(&cfg.Site)
	applyDatabaseDefaults(&cfg.Database)
	applyAlertsDefaults(&cfg.Alerts)
	applyPushoverDefaults(&cfg.Pushover)
	applyMetricsDefaults(&cfg.Metrics)
	applyLoggingDefaults(&cfg.Logging)
}

func applySiteDefaults(s *SiteConfig) {
	if s.BaseURL == "" {
		s.BaseURL = "https://communityfurniture.org"
	}
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}
	if s.RequestsPerSecond == 0 {
		s.RequestsPerSecond = 1.0
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Path == "" {
		d.Path = "items.db"
	}
	if d.BusyTimeout == 0 {
		d.BusyTimeout = 5 * time.Second
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.Categories == nil {
		a.Categories = []string{string(domain.CategorySofa)}
	}
	if a.NotifyDelay == 0 {
		a.NotifyDelay = 10 * time.Second
	}
}

func applyPushoverDefaults(p *PushoverConfig) {
	if p.APIURL == "" {
		p.APIURL = "https://api.pushover.net/1/messages.json"
	}
}

func applyMetricsDefaults(m *MetricsConfig) {
	if m.Job == "" {
		m.Job = "furnwatch"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Site.BaseURL == "" {
		errs = append(errs, fmt.Errorf("site.base_url is required"))
	}
	if cfg.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}

	if cfg.Alerts.Enabled {
		if cfg.Pushover.Token == "" {
			errs = append(errs, fmt.Errorf("pushover.token is required when alerts are enabled"))
		}
		if cfg.Pushover.User == "" {
			errs = append(errs, fmt.Errorf("pushover.user is required when alerts are enabled"))
		}
	}

	for _, s := range cfg.Alerts.Categories {
		if _, err := domain.ParseCategory(s); err != nil {
			errs = append(errs, fmt.Errorf("alerts.categories: %w", err))
		}
	}

	return errors.Join(errs...)
}
