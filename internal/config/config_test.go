package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/drills/internal/config"
	"github.com/ayoisaiah/drills/internal/testutil"
)

type TestCase struct {
	Want       *config.Config
	Name       string
	GoldenFile string
	Snapshot   []byte `json:"-"`
}

func (t TestCase) Output() (out []byte, name string) {
	return t.Snapshot, t.GoldenFile
}

// defaultConfig returns a new Config instance with default values.
func defaultConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 10 * time.Second,
		},
		Refresh: config.RefreshConfig{
			Interval: 30 * time.Second,
		},
		Clock: config.ClockConfig{
			Tick: time.Second,
		},
		Confirm: config.ConfirmConfig{
			Window: 3 * time.Second,
		},
		Notifications: config.NotificationConfig{
			Lifetime: 5 * time.Second,
		},
		Display: config.DisplayConfig{
			Locale:    "uk",
			DarkTheme: true,
		},
		Log: config.LogConfig{
			Level: "info",
		},
	}
}

func TestViperWriteConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	tc := TestCase{
		Name:       "write default config to file",
		GoldenFile: "defaults",
		Want:       defaultConfig(),
	}

	cfg, err := config.New(
		config.WithViperConfig(configPath),
	)
	require.NoError(t, err)

	tc.Snapshot, err = os.ReadFile(configPath)
	require.NoError(t, err, "failed to read config")

	testutil.CompareGoldenFile(t, tc)

	assert.Equal(t, tc.Want, cfg)
}

func TestViperReadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	b, err := os.ReadFile("testdata/modified_config.yml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, b, 0o600))

	want := defaultConfig()
	want.API.BaseURL = "https://drills.example.com"
	want.API.Timeout = 5 * time.Second
	want.Display.Locale = "en"
	want.Display.NaturalSort = true
	want.Hooks.AfterMutation = `notify-send "drills" "updated"`
	want.Refresh.Interval = time.Minute

	cfg, err := config.New(
		config.WithViperConfig(configPath),
	)
	require.NoError(t, err)

	assert.Equal(t, want, cfg)
}

func TestWithEnv(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "http://10.0.0.5:8080")
	t.Setenv(config.EnvLogLevel, "DEBUG")

	cfg, err := config.New(config.WithDefaults(), config.WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8080", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"relative url", func(c *config.Config) { c.API.BaseURL = "localhost:5000" }},
		{"ftp url", func(c *config.Config) { c.API.BaseURL = "ftp://example.com" }},
		{"zero timeout", func(c *config.Config) { c.API.Timeout = 0 }},
		{"tiny refresh", func(c *config.Config) { c.Refresh.Interval = time.Millisecond }},
		{"bad locale", func(c *config.Config) { c.Display.Locale = "!!" }},
		{"bad level", func(c *config.Config) { c.Log.Level = "trace" }},
	}

	require.NoError(t, defaultConfig().Validate())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := defaultConfig()
			tc.mutate(c)

			assert.Error(t, c.Validate())
		})
	}
}
