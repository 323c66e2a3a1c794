package config

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/drills/internal/timeutil"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	APIURL  string
	Timeout string
	Refresh string
	Since   string
	Period  string
	Filter  string
	Sort    string
	Order   string
	Format  string
	Output  string
	JSON    bool
	NoColor bool
	Demo    bool
	Offline bool
	Yes     bool
	Summary bool
	Desktop bool
	Natural bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			APIURL:  ctx.String("api-url"),
			Timeout: ctx.String("timeout"),
			Refresh: ctx.String("refresh"),
			Since:   ctx.String("since"),
			Period:  ctx.String("period"),
			Filter:  ctx.String("filter"),
			Sort:    ctx.String("sort"),
			Order:   ctx.String("order"),
			Format:  ctx.String("format"),
			Output:  ctx.String("output"),
			JSON:    ctx.Bool("json"),
			NoColor: ctx.Bool("no-color"),
			Demo:    ctx.Bool("demo"),
			Offline: ctx.Bool("offline"),
			Yes:     ctx.Bool("yes"),
			Summary: ctx.Bool("summary"),
			Desktop: ctx.Bool("desktop"),
			Natural: ctx.Bool("natural"),
		}

		return applyCLIOptions(c, opts, time.Now())
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions, now time.Time) error {
	if opts.APIURL != "" {
		c.API.BaseURL = strings.TrimSpace(opts.APIURL)
	}

	if opts.Timeout != "" {
		d, err := parseDuration(opts.Timeout)
		if err != nil {
			return err
		}

		c.API.Timeout = d
	}

	if opts.Refresh != "" {
		d, err := parseDuration(opts.Refresh)
		if err != nil {
			return err
		}

		c.Refresh.Interval = d
	}

	if opts.Desktop {
		c.Notifications.Desktop = true
	}

	if opts.Natural {
		c.Display.NaturalSort = true
	}

	if err := applyCLIPeriod(c, opts, now); err != nil {
		return err
	}

	c.CLI.Filter = strings.ToLower(opts.Filter)
	c.CLI.Sort = opts.Sort
	c.CLI.Order = strings.ToLower(opts.Order)
	c.CLI.Format = strings.ToLower(opts.Format)
	c.CLI.Output = opts.Output
	c.CLI.JSON = opts.JSON
	c.CLI.NoColor = opts.NoColor
	c.CLI.Demo = opts.Demo
	c.CLI.Offline = opts.Offline
	c.CLI.Yes = opts.Yes
	c.CLI.Summary = opts.Summary

	return nil
}

// applyCLIPeriod resolves --period and --since into a time range. --since
// narrows the start of the period.
func applyCLIPeriod(c *Config, opts CLIOptions, now time.Time) error {
	period := timeutil.PeriodAllTime

	if opts.Period != "" {
		period = timeutil.Period(strings.ToLower(opts.Period))

		if !period.Valid() {
			return errInvalidPeriod.Fmt(opts.Period, timeutil.PeriodCollection)
		}
	}

	c.CLI.StartTime, c.CLI.EndTime = timeutil.PeriodRange(period, now)

	if opts.Since != "" {
		since, err := timeutil.ParseSince(opts.Since, now)
		if err != nil {
			return err
		}

		c.CLI.Since = since

		if since.After(c.CLI.StartTime) {
			c.CLI.StartTime = since
		}
	}

	return nil
}
