// Package config loads SupportSphere settings from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Mail          MailConfig          `yaml:"mail"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Reminder watermark policies
const (
	PolicyOnce      = "once"
	PolicyEveryScan = "every_scan"
)

type NotificationsConfig struct {
	Workers             int           `yaml:"workers"`
	QueueSize           int           `yaml:"queue_size"`
	ReminderInterval    time.Duration `yaml:"reminder_interval"`
	ReminderLookahead   time.Duration `yaml:"reminder_lookahead"`
	ReminderPolicy      string        `yaml:"reminder_policy"`
	ReminderRepeatAfter time.Duration `yaml:"reminder_repeat_after"`
	// Timezone is the IANA zone quiet hours are evaluated in
	Timezone string `yaml:"timezone"`
	// EnforceQuietHoursOnEvents gates request-triggered sends on quiet
	// hours as well as reminders. Unset means true.
	EnforceQuietHoursOnEvents *bool `yaml:"enforce_quiet_hours_on_events"`
}

// EnforceQuietHours resolves the optional toggle
func (n NotificationsConfig) EnforceQuietHours() bool {
	return n.EnforceQuietHoursOnEvents == nil || *n.EnforceQuietHoursOnEvents
}

// Location returns the configured quiet-hours zone, UTC when unset
func (n NotificationsConfig) Location() (*time.Location, error) {
	if n.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(n.Timezone)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives logs instead of stderr when set
	File string `yaml:"file"`
}

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Default returns a config with every default applied
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the YAML file at path, or the default location when path is
// empty, then applies .env and environment overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	loadDotEnv()

	if path == "" {
		if p, err := getConfigPath(); err == nil {
			path = p
		}
	}

	var config Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save writes the config to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if p := os.Getenv("SUPPORTSPHERE_CONFIG"); p != "" {
		return p, nil
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "supportsphere", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "supportsphere", "config.yaml"), nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "supportsphere.db"
	}
	return filepath.Join(home, ".supportsphere", "supportsphere.db")
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath()
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}

	c.Mail.applyDefaults()

	n := &c.Notifications
	if n.Workers == 0 {
		n.Workers = 2
	}
	if n.QueueSize == 0 {
		n.QueueSize = 100
	}
	if n.ReminderInterval == 0 {
		n.ReminderInterval = 6 * time.Hour
	}
	if n.ReminderLookahead == 0 {
		n.ReminderLookahead = 24 * time.Hour
	}
	if n.ReminderPolicy == "" {
		n.ReminderPolicy = PolicyOnce
	}
	if n.ReminderRepeatAfter == 0 {
		n.ReminderRepeatAfter = 24 * time.Hour
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks ranges and closed value sets
func (c *Config) Validate() error {
	n := c.Notifications
	switch {
	case n.Workers < 1:
		return fmt.Errorf("%w: notifications.workers must be at least 1", ErrInvalidConfig)
	case n.QueueSize < 1:
		return fmt.Errorf("%w: notifications.queue_size must be at least 1", ErrInvalidConfig)
	case n.ReminderInterval <= 0 || n.ReminderLookahead <= 0 || n.ReminderRepeatAfter <= 0:
		return fmt.Errorf("%w: reminder durations must be positive", ErrInvalidConfig)
	case n.ReminderPolicy != PolicyOnce && n.ReminderPolicy != PolicyEveryScan:
		return fmt.Errorf("%w: notifications.reminder_policy must be %q or %q", ErrInvalidConfig, PolicyOnce, PolicyEveryScan)
	}
	if _, err := n.Location(); err != nil {
		return fmt.Errorf("%w: notifications.timezone: %v", ErrInvalidConfig, err)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format must be text or json", ErrInvalidConfig)
	}

	if err := c.Mail.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
