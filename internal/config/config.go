package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "NEWSLEDGER_CONFIG"
	logLevelEnv     = "LOG_LEVEL"
	xBearerEnv      = "X_BEARER_TOKEN"
)

// Validation sentinels; matched with errors.Is at startup.
var (
	ErrNoSources         = errors.New("at least one source is required")
	ErrMissingSourceName = errors.New("source name is required")
	ErrMissingSourceURL  = errors.New("source url is required")
	ErrBadRateLimit      = errors.New("fetch rate must be positive")
	ErrMissingCronSpec   = errors.New("scheduler cron expression is required")
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Data      DataConfig      `yaml:"data"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	X         XConfig         `yaml:"x"`
	Sources   []SourceConfig  `yaml:"sources"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DataConfig locates the on-disk audit trail and reference files.
type DataConfig struct {
	NewsDir string `yaml:"newsDir"`
	RefDir  string `yaml:"refDir"`
}

// FetchConfig tunes the shared feed HTTP behavior. Durations are
// integer seconds so they round-trip through YAML cleanly.
type FetchConfig struct {
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
	UserAgent      string  `yaml:"userAgent"`
	RatePerSecond  float64 `yaml:"ratePerSecond"`
	Retries        int     `yaml:"retries"`
	BackoffSeconds int     `yaml:"backoffSeconds"`
}

// Timeout resolves the per-request HTTP timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// Backoff resolves the base retry backoff.
func (f FetchConfig) Backoff() time.Duration {
	return time.Duration(f.BackoffSeconds) * time.Second
}

// SchedulerConfig defines when the daemon ingests.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// MetricsConfig wires the daemon-mode metrics endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// XConfig describes the optional X side channel. The bearer token is
// env-only and never read from a config file.
type XConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Accounts    []string `yaml:"accounts"`
	MaxResults  int      `yaml:"maxResults"`
	BearerToken string   `yaml:"-"`
}

// SourceConfig describes a single feed endpoint. Kind defaults to rss.
type SourceConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Kind string `yaml:"kind"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	cfg.normalizeSources()

	return cfg
}

// Validate rejects malformed source configuration before any fetching
// starts.
func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source %d: %w", i, ErrMissingSourceName)
		}
		if src.URL == "" {
			return fmt.Errorf("source %s: %w", src.Name, ErrMissingSourceURL)
		}
	}
	if c.Fetch.RatePerSecond <= 0 {
		return ErrBadRateLimit
	}
	if c.Scheduler.CronExpression == "" {
		return ErrMissingCronSpec
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(xBearerEnv); v != "" {
		c.X.BearerToken = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func (c *Config) normalizeSources() {
	for i := range c.Sources {
		if c.Sources[i].Kind == "" {
			c.Sources[i].Kind = "rss"
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Data.NewsDir != "" {
		base.Data.NewsDir = override.Data.NewsDir
	}
	if override.Data.RefDir != "" {
		base.Data.RefDir = override.Data.RefDir
	}

	if override.Fetch.TimeoutSeconds > 0 {
		base.Fetch.TimeoutSeconds = override.Fetch.TimeoutSeconds
	}
	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}
	if override.Fetch.RatePerSecond > 0 {
		base.Fetch.RatePerSecond = override.Fetch.RatePerSecond
	}
	if override.Fetch.Retries > 0 {
		base.Fetch.Retries = override.Fetch.Retries
	}
	if override.Fetch.BackoffSeconds > 0 {
		base.Fetch.BackoffSeconds = override.Fetch.BackoffSeconds
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Metrics.Addr != "" {
		base.Metrics.Addr = override.Metrics.Addr
	}

	if override.X.Enabled {
		base.X.Enabled = true
	}
	if len(override.X.Accounts) > 0 {
		base.X.Accounts = override.X.Accounts
	}
	if override.X.MaxResults > 0 {
		base.X.MaxResults = override.X.MaxResults
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Data: DataConfig{
			NewsDir: "data/raw/news",
			RefDir:  "data/ref",
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 10,
			UserAgent:      "NewsLedger/1.0 (+https://github.com/newsledger)",
			RatePerSecond:  1,
			Retries:        2,
			BackoffSeconds: 2,
		},
		Scheduler: SchedulerConfig{CronExpression: "*/10 * * * *", Timezone: defaultTimezone, location: tz},
		Metrics:   MetricsConfig{Addr: ":9108"},
		X: XConfig{
			Enabled:    false,
			Accounts:   []string{"AdamSchefter", "RapSheet", "FieldYates"},
			MaxResults: 100,
		},
		Sources: []SourceConfig{
			{Name: "ESPN_NFL", URL: "https://www.espn.com/espn/rss/nfl/news", Kind: "rss"},
			{Name: "CBS_NFL", URL: "https://www.cbssports.com/rss/headlines/nfl/", Kind: "rss"},
			{Name: "PFT", URL: "https://profootballtalk.nbcsports.com/feed/", Kind: "rss"},
		},
	}
}
