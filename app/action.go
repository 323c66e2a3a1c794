package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	goruntime "runtime"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/drills/internal/clock"
	"github.com/ayoisaiah/drills/internal/config"
	"github.com/ayoisaiah/drills/internal/logging"
	"github.com/ayoisaiah/drills/internal/pathutil"
	"github.com/ayoisaiah/drills/internal/tui"
	"github.com/ayoisaiah/drills/internal/ui"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// parseID reads a positive integer id.
func parseID(s, kind string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || id <= 0 {
		return 0, errInvalidID.Fmt(kind, s)
	}

	return id, nil
}

// argID returns the single id argument of a command.
func argID(ctx *cli.Context, kind string) (int, error) {
	if ctx.NArg() == 0 {
		return 0, errMissingArg.Fmt(kind + " id")
	}

	return parseID(ctx.Args().First(), kind)
}

// argIDs returns every id argument of a command.
func argIDs(ctx *cli.Context, kind string) ([]int, error) {
	if ctx.NArg() == 0 {
		return nil, errMissingArg.Fmt(kind + " id")
	}

	ids := make([]int, 0, ctx.NArg())

	for _, arg := range ctx.Args().Slice() {
		id, err := parseID(arg, kind)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(config.Stdout, string(b))

	return err
}

// confirm asks the user to type yes before a destructive action. It returns
// true straight away when --yes was passed.
func confirm(rt *runtime, prompt string) bool {
	if rt.cfg.CLI.Yes {
		return true
	}

	ui.Warn(config.Stdout, prompt+" [y/N] ")

	reader := bufio.NewReader(config.Stdin)

	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

// dashboardAction opens the full-screen dashboard.
func dashboardAction(ctx context.Context, _ *cli.Context, rt *runtime) error {
	prefs, err := rt.db.LoadPrefs()
	if err != nil {
		rt.logger.Warn("restoring view state failed", slog.Any("error", err))
	}

	ticker := clock.NewTicker(clock.Real{}, rt.cfg.Clock.Tick)

	return tui.Run(ctx, tui.Options{
		Cache:         rt.cache,
		Ticker:        ticker,
		Store:         rt.db,
		Comparer:      rt.comparer,
		Logger:        logging.Component(rt.logger, "tui"),
		ExportDir:     pathutil.ExportDir(),
		Prefs:         prefs,
		ConfirmWindow: rt.cfg.Confirm.Window,
	}, rt.cfg.Refresh.Interval)
}

// editConfigAction handles the edit-config command which opens the drills
// config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	if err := pathutil.Initialize(); err != nil {
		return err
	}

	defaultEditor := "nano"

	if goruntime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}
