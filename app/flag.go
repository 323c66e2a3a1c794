package app

import "github.com/urfave/cli/v2"

var (
	apiURLFlag = &cli.StringFlag{
		Name:    "api-url",
		Aliases: []string{"u"},
		Usage:   "Base URL of the drills backend (default: http://localhost:5000)",
	}

	timeoutFlag = &cli.StringFlag{
		Name:  "timeout",
		Usage: "Give up on a request after this long, e.g. '10s'",
	}

	refreshFlag = &cli.StringFlag{
		Name:  "refresh",
		Usage: "How often the dashboard refetches data, e.g. '30s'",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the result as JSON",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	demoFlag = &cli.BoolFlag{
		Name:  "demo",
		Usage: "Run against an in-process backend seeded with sample data",
	}

	offlineFlag = &cli.BoolFlag{
		Name:  "offline",
		Usage: "Read the data saved by the last online run. Changes are refused",
	}

	desktopFlag = &cli.BoolFlag{
		Name:  "desktop",
		Usage: "Also show notifications on the desktop",
	}

	naturalFlag = &cli.BoolFlag{
		Name:  "natural",
		Usage: "Sort text columns in natural order (item2 before item10)",
	}

	filterFlag = &cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "Sessions to include: all, active or completed",
		Value:   "all",
	}

	sortFlag = &cli.StringFlag{
		Name:    "sort",
		Aliases: []string{"s"},
		Usage:   "Column to sort by",
	}

	orderFlag = &cli.StringFlag{
		Name:    "order",
		Aliases: []string{"o"},
		Usage:   "Sort direction: asc or desc",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only include sessions started after this date (e.g. '2 days ago')",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Reporting period: all-time, today, yesterday, 7days, 14days, 30days, 90days or 365days",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Do not ask for confirmation",
	}

	firstNameFlag = &cli.StringFlag{
		Name:  "first",
		Usage: "First name",
	}

	lastNameFlag = &cli.StringFlag{
		Name:  "last",
		Usage: "Last name",
	}

	emailFlag = &cli.StringFlag{
		Name:  "email",
		Usage: "Email address (optional)",
	}

	titleFlag = &cli.StringFlag{
		Name:    "title",
		Aliases: []string{"t"},
		Usage:   "Drill title",
	}

	priceFlag = &cli.Float64Flag{
		Name:  "price",
		Usage: "Price per minute",
	}

	usersFlag = &cli.IntSliceFlag{
		Name:    "user",
		Aliases: []string{"U"},
		Usage:   "User id; repeat for several users",
	}

	sessionUserFlag = &cli.IntFlag{
		Name:     "user",
		Aliases:  []string{"U"},
		Usage:    "User id of the session",
		Required: true,
	}

	sessionDrillFlag = &cli.IntFlag{
		Name:     "drill",
		Aliases:  []string{"D"},
		Usage:    "Drill id of the session",
		Required: true,
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Export format: csv or json",
		Value: "csv",
	}

	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "File to write. Defaults to a timestamped file in the export directory; '-' writes to stdout",
	}

	summaryFlag = &cli.BoolFlag{
		Name:  "summary",
		Usage: "Export the per-drill summary instead of the sessions",
	}
)

// sessionFlags are shared by every command that reads sessions.
func sessionFlags() []cli.Flag {
	return []cli.Flag{filterFlag, sinceFlag, periodFlag, sortFlag, orderFlag}
}
