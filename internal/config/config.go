// Package config loads drills settings from the config file, the environment
// and command-line flags.
package config

import (
	"io"
	"os"
	"time"
)

type (
	// Config holds all configuration settings.
	Config struct {
		API           APIConfig          `mapstructure:"api"`
		Refresh       RefreshConfig      `mapstructure:"refresh"`
		Clock         ClockConfig        `mapstructure:"clock"`
		Confirm       ConfirmConfig      `mapstructure:"confirm"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Display       DisplayConfig      `mapstructure:"display"`
		Hooks         HooksConfig        `mapstructure:"hooks"`
		Log           LogConfig          `mapstructure:"log"`
		CLI           CLIConfig          `mapstructure:"-"`
	}

	// APIConfig locates the backend.
	APIConfig struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	RefreshConfig struct {
		Interval time.Duration `mapstructure:"interval"`
	}

	ClockConfig struct {
		Tick time.Duration `mapstructure:"tick"`
	}

	// ConfirmConfig sets how long a destructive action waits for its second
	// key press.
	ConfirmConfig struct {
		Window time.Duration `mapstructure:"window"`
	}

	NotificationConfig struct {
		Lifetime time.Duration `mapstructure:"lifetime"`
		Desktop  bool          `mapstructure:"desktop"`
	}

	DisplayConfig struct {
		Locale      string `mapstructure:"locale"`
		NaturalSort bool   `mapstructure:"natural_sort"`
		DarkTheme   bool   `mapstructure:"dark_theme"`
	}

	// HooksConfig holds shell commands run after events.
	HooksConfig struct {
		AfterMutation string `mapstructure:"after_mutation"`
	}

	LogConfig struct {
		Level string `mapstructure:"level"`
	}

	// CLIConfig holds per-invocation options that are never saved.
	CLIConfig struct {
		Since     time.Time
		StartTime time.Time
		EndTime   time.Time
		Filter    string
		Sort      string
		Order     string
		Format    string
		Output    string
		JSON      bool
		NoColor   bool
		Demo      bool
		Offline   bool
		Yes       bool
		Summary   bool
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.0"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}
