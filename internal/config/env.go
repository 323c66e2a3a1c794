package config

import (
	"os"
	"strings"
)

// Environment variables read by WithEnv.
const (
	EnvAPIURL   = "DRILLS_API_URL"
	EnvLogLevel = "DRILLS_LOG_LEVEL"
)

// WithEnv overrides file settings with environment variables.
func WithEnv() Option {
	return func(c *Config) error {
		if u := strings.TrimSpace(os.Getenv(EnvAPIURL)); u != "" {
			c.API.BaseURL = u
		}

		if l := strings.TrimSpace(os.Getenv(EnvLogLevel)); l != "" {
			c.Log.Level = strings.ToLower(l)
		}

		return nil
	}
}
