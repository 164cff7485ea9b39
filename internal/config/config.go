package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultListen     = "127.0.0.1:8080"
	defaultTimezone   = "Local"
	defaultWeekStart  = "sunday"
	defaultCacheFlush = "0 0 * * *"
	defaultLocale     = "en"
	defaultLogLevel   = "info"
	defaultDriver     = "sqlite"
	defaultSQLitePath = "./var/gardencal.db"

	defaultHorizonDays   = 60
	defaultReminderLimit = 5
	defaultRateRPS       = 20
	defaultRateBurst     = 40
)

// DatabaseConfig selects the plant record store.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `yaml:"driver" json:"driver" validate:"oneof=postgres sqlite"`
	// DSN is a lib/pq connection string for postgres or a file path for
	// sqlite.
	DSN string `yaml:"dsn" json:"dsn" validate:"required"`
}

// RateLimitConfig bounds API request throughput. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   int `yaml:"rps" json:"rps" validate:"gte=0"`
	Burst int `yaml:"burst" json:"burst" validate:"gte=0"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen" validate:"required,hostname_port"`

	// Timezone is the IANA zone in which "today" is evaluated. "Local"
	// uses the host zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is the first column of month grids: "sunday" or "monday".
	WeekStart string `yaml:"week_start" json:"week_start" validate:"oneof=sunday monday"`

	// CacheFlush is a cron expression for dropping cached dashboards so a
	// new day is picked up.
	CacheFlush string `yaml:"cache_flush" json:"cache_flush"`

	// HorizonDays is the default reminder horizon. Values above 60 are
	// capped by the scheduler.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days" validate:"gt=0,lte=60"`

	// ReminderLimit caps the upcoming reminders feed.
	ReminderLimit int `yaml:"reminder_limit" json:"reminder_limit" validate:"gt=0"`

	// Locale is a BCP 47 tag used to collate location names.
	Locale string `yaml:"locale" json:"locale" validate:"bcp47_language_tag"`

	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`

	Database DatabaseConfig `yaml:"database" json:"database"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

var validate = validator.New()

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        defaultListen,
		Timezone:      defaultTimezone,
		WeekStart:     defaultWeekStart,
		CacheFlush:    defaultCacheFlush,
		HorizonDays:   defaultHorizonDays,
		ReminderLimit: defaultReminderLimit,
		Locale:        defaultLocale,
		LogLevel:      defaultLogLevel,
		Database: DatabaseConfig{
			Driver: defaultDriver,
			DSN:    defaultSQLitePath,
		},
		CORSOrigins: []string{},
		RateLimit: RateLimitConfig{
			RPS:   defaultRateRPS,
			Burst: defaultRateBurst,
		},
	}
}

// Normalize fills in missing values with defaults so partially-filled
// configs still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	c.WeekStart = strings.ToLower(strings.TrimSpace(c.WeekStart))
	switch c.WeekStart {
	case "sunday", "monday":
	default:
		c.WeekStart = defaultWeekStart
	}
	if c.CacheFlush == "" {
		c.CacheFlush = defaultCacheFlush
	}
	if c.HorizonDays <= 0 || c.HorizonDays > defaultHorizonDays {
		c.HorizonDays = defaultHorizonDays
	}
	if c.ReminderLimit <= 0 {
		c.ReminderLimit = defaultReminderLimit
	}
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = defaultDriver
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = defaultSQLitePath
	}
	if c.CORSOrigins == nil {
		c.CORSOrigins = []string{}
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < c.RateLimit.RPS {
		c.RateLimit.Burst = c.RateLimit.RPS
	}
}

// Validate checks struct tags and values the tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	if _, err := cron.ParseStandard(c.CacheFlush); err != nil {
		return fmt.Errorf("config: cache_flush %q: %w", c.CacheFlush, err)
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// FirstWeekday maps WeekStart to a time.Weekday.
func (c *Config) FirstWeekday() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     permissions and returned.
//   - Otherwise the YAML is decoded, normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Still hand back usable defaults.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".gardencal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience wrapper around the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
