// Package config holds the draft engine settings.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// QUOTEDRAFT_* environment variables. A missing file keeps the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. QUOTEDRAFT_DB_PATH.
const EnvPrefix = "QUOTEDRAFT"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the complete engine configuration.
type Config struct {
	Backend     string `yaml:"backend" envconfig:"BACKEND"`
	DBPath      string `yaml:"db_path" envconfig:"DB_PATH"`
	RedisURL    string `yaml:"redis_url" envconfig:"REDIS_URL"`
	RedisPrefix string `yaml:"redis_prefix" envconfig:"REDIS_PREFIX"`

	Retention RetentionConfig `yaml:"retention" envconfig:"RETENTION"`
	Scheduler SchedulerConfig `yaml:"scheduler" envconfig:"SCHEDULER"`
	Browser   BrowserConfig   `yaml:"browser" envconfig:"BROWSER"`

	// CatalogPath points at the risk/role catalog used by rating commands.
	CatalogPath string `yaml:"catalog_path" envconfig:"CATALOG_PATH"`
}

// RetentionConfig controls eviction and history.
type RetentionConfig struct {
	Autosave        time.Duration `yaml:"autosave" envconfig:"AUTOSAVE"`
	Manual          time.Duration `yaml:"manual" envconfig:"MANUAL"`
	HistoryLimit    int           `yaml:"history_limit" envconfig:"HISTORY_LIMIT"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" envconfig:"CLEANUP_INTERVAL"`
}

// SchedulerConfig controls autosave coalescing.
type SchedulerConfig struct {
	Debounce time.Duration `yaml:"debounce" envconfig:"DEBOUNCE"`
	AutoSave bool          `yaml:"autosave" envconfig:"AUTOSAVE"`
}

// BrowserConfig controls draft listing.
type BrowserConfig struct {
	Limit int `yaml:"limit" envconfig:"LIMIT"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Backend:     BackendSQLite,
		DBPath:      "drafts.db",
		RedisPrefix: "draft:",
		Retention: RetentionConfig{
			Autosave:        7 * 24 * time.Hour,
			Manual:          30 * 24 * time.Hour,
			HistoryLimit:    20,
			CleanupInterval: time.Hour,
		},
		Scheduler: SchedulerConfig{
			Debounce: 3 * time.Second,
			AutoSave: true,
		},
		Browser: BrowserConfig{
			Limit: 50,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any)
// and then with environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("db_path is required for the sqlite backend"))
		}
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis_url is required for the redis backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q (want sqlite, memory or redis)", c.Backend))
	}

	positive := []struct {
		name string
		d    time.Duration
	}{
		{"retention.autosave", c.Retention.Autosave},
		{"retention.manual", c.Retention.Manual},
		{"retention.cleanup_interval", c.Retention.CleanupInterval},
		{"scheduler.debounce", c.Scheduler.Debounce},
	}
	for _, p := range positive {
		if p.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", p.name, p.d))
		}
	}
	if c.Retention.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("retention.history_limit must be positive, got %d", c.Retention.HistoryLimit))
	}
	if c.Browser.Limit <= 0 {
		errs = append(errs, fmt.Errorf("browser.limit must be positive, got %d", c.Browser.Limit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
