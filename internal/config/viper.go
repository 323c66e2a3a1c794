package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	keyAPIBaseURL            = "api.base_url"
	keyAPITimeout            = "api.timeout"
	keyRefreshInterval       = "refresh.interval"
	keyClockTick             = "clock.tick"
	keyConfirmWindow         = "confirm.window"
	keyNotificationsLifetime = "notifications.lifetime"
	keyNotificationsDesktop  = "notifications.desktop"
	keyDisplayLocale         = "display.locale"
	keyDisplayNaturalSort    = "display.natural_sort"
	keyDarkTheme             = "display.dark_theme"
	keyHookAfterMutation     = "hooks.after_mutation"
	keyLogLevel              = "log.level"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultLocale  = "uk"
)

// WithViperConfig returns an Option that loads configuration from the YAML
// file at configPath. The file is created with default values if it does not
// exist.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		applyPrompted(v, c)

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// WithDefaults loads the default values without touching the file system.
func WithDefaults() Option {
	return func(c *Config) error {
		v := viper.New()

		setDefaults(v)

		return loadViperConfig(v, c)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyAPIBaseURL, DefaultBaseURL)
	v.SetDefault(keyAPITimeout, "10s")
	v.SetDefault(keyRefreshInterval, "30s")
	v.SetDefault(keyClockTick, "1s")
	v.SetDefault(keyConfirmWindow, "3s")
	v.SetDefault(keyNotificationsLifetime, "5s")
	v.SetDefault(keyNotificationsDesktop, false)
	v.SetDefault(keyDisplayLocale, DefaultLocale)
	v.SetDefault(keyDisplayNaturalSort, false)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyHookAfterMutation, "")
	v.SetDefault(keyLogLevel, "info")
}

// applyPrompted keeps answers given by WithPromptConfig in the new file.
func applyPrompted(v *viper.Viper, c *Config) {
	if c.API.BaseURL != "" {
		v.Set(keyAPIBaseURL, c.API.BaseURL)
	}

	if c.Refresh.Interval > 0 {
		v.Set(keyRefreshInterval, c.Refresh.Interval.String())
	}
}

// loadViperConfig copies the merged Viper settings into c.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	return nil
}

// parseDuration accepts a Go duration string or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	secs, err := time.ParseDuration(s + "s")
	if err != nil {
		return 0, errInvalidCLIDuration.Fmt(s)
	}

	return secs, nil
}
