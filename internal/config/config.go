// Package config resolves runtime settings from defaults, an optional YAML
// file under the data directory, and ESTIMATOR_* environment variables, in
// that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/estimator/internal/store"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in Home.
const FileName = "config.yaml"

// Config holds all runtime settings.
type Config struct {
	Home        string `yaml:"-"`
	ProjectsDir string `yaml:"projects_dir"`
	DBPath      string `yaml:"db"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	MaxNotifications     int           `yaml:"max_notifications"`
	NotificationDuration time.Duration `yaml:"notification_duration"`
	// AutosaveInterval of zero disables autosave.
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	MaxRecent        int           `yaml:"max_recent"`
	// DailyRate prices one man-day in the development phase estimate.
	DailyRate float64 `yaml:"daily_rate"`

	// VerifyTransforms makes the store check that project transforms leave
	// their input untouched. Meant for development builds.
	VerifyTransforms bool `yaml:"verify_transforms"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	home := defaultHome()
	return Config{
		Home:                 home,
		ProjectsDir:          filepath.Join(home, "projects"),
		DBPath:               filepath.Join(home, "estimator.db"),
		LogLevel:             "info",
		LogFormat:            "text",
		MaxNotifications:     store.DefaultMaxNotifications,
		NotificationDuration: 5 * time.Second,
		MaxRecent:            10,
	}
}

func defaultHome() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".estimator")
	}
	return ".estimator"
}

// Load builds the effective configuration. A missing config file is not an
// error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()
	if v := os.Getenv("ESTIMATOR_HOME"); v != "" {
		cfg.Home = v
		cfg.ProjectsDir = filepath.Join(v, "projects")
		cfg.DBPath = filepath.Join(v, "estimator.db")
	}

	if err := cfg.mergeFile(filepath.Join(cfg.Home, FileName)); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	// Decoding onto the defaults keeps every key the file leaves out.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if c.ProjectsDir != "" && !filepath.IsAbs(c.ProjectsDir) {
		c.ProjectsDir = filepath.Join(c.Home, c.ProjectsDir)
	}
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(c.Home, c.DBPath)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ESTIMATOR_PROJECTS_DIR"); v != "" {
		c.ProjectsDir = v
	}
	if v := os.Getenv("ESTIMATOR_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("ESTIMATOR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ESTIMATOR_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("ESTIMATOR_MAX_NOTIFICATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxNotifications = n
		}
	}
	if v := os.Getenv("ESTIMATOR_NOTIFICATION_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.NotificationDuration = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("ESTIMATOR_AUTOSAVE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.AutosaveInterval = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("ESTIMATOR_MAX_RECENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxRecent = n
		}
	}
	if v := os.Getenv("ESTIMATOR_DAILY_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.DailyRate = f
		}
	}
	if v := os.Getenv("ESTIMATOR_VERIFY_TRANSFORMS"); v != "" {
		c.VerifyTransforms, _ = strconv.ParseBool(v)
	}
}

// StoreLimits converts the notification settings for the store.
func (c Config) StoreLimits() store.Limits {
	lim := store.DefaultLimits()
	if c.MaxNotifications > 0 {
		lim.MaxNotifications = c.MaxNotifications
	}
	return lim
}

// LogDir is where log files are written.
func (c Config) LogDir() string {
	return filepath.Join(c.Home, "logs")
}
