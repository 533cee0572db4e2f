// Package config loads mindquest settings from a YAML file, a .env file and
// MINDQUEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/progress"
)

// Config holds all mindquest settings.
type Config struct {
	// DBPath is the SQLite file. Empty means store.DefaultDBPath.
	DBPath string `yaml:"db_path"`

	// Timezone names the IANA location whose calendar days count for streaks.
	Timezone string `yaml:"timezone"`

	// DefaultTemplate is used when a command gets no --template.
	DefaultTemplate content.TemplateID `yaml:"default_template"`

	XP      progress.XPConfig `yaml:"xp"`
	Logging LoggingConfig     `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// ValidLogFormats lists the supported log encodings.
var ValidLogFormats = []string{"json", "console"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timezone:        "UTC",
		DefaultTemplate: content.TemplateStandard,
		XP:              progress.DefaultXP(),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mindquest/config.yaml,
// falling back to ~/.config/mindquest/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mindquest", "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv loads envFile (if it exists) into the process environment, then
// applies MINDQUEST_* overrides. Variables already set win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if p := os.Getenv("MINDQUEST_DB"); p != "" {
		c.DBPath = p
	}
	if tz := os.Getenv("MINDQUEST_TIMEZONE"); tz != "" {
		c.Timezone = tz
	}
	if t := os.Getenv("MINDQUEST_TEMPLATE"); t != "" {
		c.DefaultTemplate = content.TemplateID(t)
	}
	if l := os.Getenv("MINDQUEST_LOG_LEVEL"); l != "" {
		c.Logging.Level = l
	}
	return nil
}

// Validate checks the settings that cannot be checked lazily.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.XP.PerLesson < 0 || c.XP.PerElective < 0 || c.XP.MilestoneBonus < 0 {
		errs = append(errs, fmt.Errorf("xp values must be non-negative, got %+v", c.XP))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	if !slices.Contains(ValidLogFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("invalid log format %q (valid: %v)", c.Logging.Format, ValidLogFormats))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone. Empty means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NewLogger builds a zap logger from the logging settings. verbose forces
// debug level.
func (l LoggingConfig) NewLogger(verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = l.Format
	if l.Format == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.OutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
