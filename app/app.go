package app

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/drills/internal/config"
)

const (
	envNoColor       = "NO_COLOR"
	envDrillsNoColor = "DRILLS_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"u"},
		Usage:   "List and manage users",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "Print all users. Sort by id, firstName, lastName, email or createdAt",
				Flags:   []cli.Flag{sortFlag, orderFlag},
				Action:  withRuntime(listUsersAction),
			},
			{
				Name:   "create",
				Usage:  "Add a user",
				Flags:  []cli.Flag{requiredFlag(firstNameFlag), requiredFlag(lastNameFlag), emailFlag},
				Action: withRuntime(createUserAction),
			},
			{
				Name:      "update",
				Usage:     "Change a user. Omitted fields keep their value",
				ArgsUsage: "<user id>",
				Flags:     []cli.Flag{firstNameFlag, lastNameFlag, emailFlag},
				Action:    withRuntime(updateUserAction),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete one or more users",
				ArgsUsage: "<user id>...",
				Flags:     []cli.Flag{yesFlag},
				Action:    withRuntime(deleteUsersAction),
			},
		},
	}
}

func drillsCommand() *cli.Command {
	return &cli.Command{
		Name:    "drills",
		Aliases: []string{"d"},
		Usage:   "List, manage, start and stop drills",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "Print all drills with their running time and cost",
				Action:  withRuntime(listDrillsAction),
			},
			{
				Name:   "create",
				Usage:  "Add a drill",
				Flags:  []cli.Flag{requiredFlag(titleFlag), priceFlag},
				Action: withRuntime(createDrillAction),
			},
			{
				Name:      "update",
				Usage:     "Change a drill. Omitted fields keep their value",
				ArgsUsage: "<drill id>",
				Flags:     []cli.Flag{titleFlag, priceFlag},
				Action:    withRuntime(updateDrillAction),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete one or more drills and their sessions",
				ArgsUsage: "<drill id>...",
				Flags:     []cli.Flag{yesFlag},
				Action:    withRuntime(deleteDrillsAction),
			},
			{
				Name:      "start",
				Usage:     "Start a drill for one or more users",
				ArgsUsage: "<drill id>",
				Flags:     []cli.Flag{usersFlag},
				Action:    withRuntime(startDrillAction),
			},
			{
				Name:      "stop",
				Usage:     "Stop a drill for the given users, or for everyone on it",
				ArgsUsage: "<drill id>",
				Flags:     []cli.Flag{usersFlag},
				Action:    withRuntime(stopDrillAction),
			},
		},
	}
}

func sessionsCommand() *cli.Command {
	return &cli.Command{
		Name:    "sessions",
		Aliases: []string{"s"},
		Usage:   "List and delete sessions",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage: `Print sessions. Sort by startedAt, stoppedAt, user, drill, duration,
				pricePerMinute or cost`,
				Flags:  sessionFlags(),
				Action: withRuntime(listSessionsAction),
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete every session of a user on a drill",
				Flags:   []cli.Flag{sessionUserFlag, sessionDrillFlag, yesFlag},
				Action:  withRuntime(deleteSessionAction),
			},
		},
	}
}

// Get retrieves the drills app instance.
func Get() *cli.App {
	drillsApp := &cli.App{
		Name: "drills",
		Usage: `
		Drills tracks timed training sessions against a drills backend. Start and
		stop drills for your users, and watch running time and cost add up live.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			usersCommand(),
			drillsCommand(),
			sessionsCommand(),
			{
				Name:    "report",
				Aliases: []string{"r"},
				Usage: `Summarise sessions per drill. Sort by drill, sessions, duration
				or cost`,
				Flags:  sessionFlags(),
				Action: withRuntime(reportAction),
			},
			{
				Name:   "export",
				Usage:  "Write sessions or the per-drill summary to a CSV or JSON file",
				Flags:  append(sessionFlags(), formatFlag, outputFlag, summaryFlag),
				Action: withRuntime(exportAction),
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			apiURLFlag,
			timeoutFlag,
			refreshFlag,
			jsonFlag,
			noColorFlag,
			demoFlag,
			offlineFlag,
			desktopFlag,
			naturalFlag,
		},
		Action: withRuntime(dashboardAction, withFirstRunPrompt()),
		Before: beforeAction,
	}

	return drillsApp
}

// requiredFlag returns a copy of f that must be set.
func requiredFlag(f *cli.StringFlag) *cli.StringFlag {
	c := *f
	c.Required = true

	return &c
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Fprintf(
			config.Stdout,
			"https://github.com/ayoisaiah/drills/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if DRILLS_NO_COLOR is set
	if _, exists := os.LookupEnv(envDrillsNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}
