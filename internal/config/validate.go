package config

import (
	"net/url"
	"slices"
	"time"

	"golang.org/x/text/language"
)

var logLevels = []string{"debug", "info", "warn", "error"}

type durationBound struct {
	value    time.Duration
	name     string
	min, max time.Duration
}

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidURL.Fmt(c.API.BaseURL)
	}

	bounds := []durationBound{
		{c.API.Timeout, "api.timeout", time.Second, 5 * time.Minute},
		{c.Refresh.Interval, "refresh.interval", time.Second, 24 * time.Hour},
		{c.Clock.Tick, "clock.tick", 100 * time.Millisecond, time.Minute},
		{c.Confirm.Window, "confirm.window", 500 * time.Millisecond, time.Minute},
		{c.Notifications.Lifetime, "notifications.lifetime", time.Second, 10 * time.Minute},
	}

	for _, b := range bounds {
		if b.value < b.min || b.value > b.max {
			return errInvalidDuration.Fmt(b.name, b.min, b.max, b.value)
		}
	}

	if _, err := language.Parse(c.Display.Locale); err != nil {
		return errUnknownLocale.Fmt(c.Display.Locale)
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		return errUnknownLevel.Fmt(c.Log.Level)
	}

	return nil
}
