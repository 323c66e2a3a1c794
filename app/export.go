package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/drills/internal/config"
	"github.com/ayoisaiah/drills/internal/export"
	"github.com/ayoisaiah/drills/internal/osutil"
	"github.com/ayoisaiah/drills/internal/pathutil"
	"github.com/ayoisaiah/drills/internal/ui"
	"github.com/ayoisaiah/drills/internal/view"
)

const stdoutPath = "-"

// exportPath returns --output, or a timestamped file name in the export
// directory.
func (rt *runtime) exportPath(what string, f view.Filter, format export.Format) (string, error) {
	if rt.cfg.CLI.Output != "" {
		return rt.cfg.CLI.Output, nil
	}

	dir := pathutil.ExportDir()

	if err := os.MkdirAll(dir, osutil.DirPermission); err != nil {
		return "", err
	}

	name := fmt.Sprintf(
		"drills-%s-%s-%s%s",
		what,
		f,
		rt.now().Format("2006-01-02-150405"),
		format.Ext(),
	)

	return filepath.Join(dir, name), nil
}

// exportAction writes the sessions picked by the filter flags, or their
// per-drill summary, as CSV or JSON.
func exportAction(ctx context.Context, _ *cli.Context, rt *runtime) error {
	format := export.FormatCSV

	if rt.cfg.CLI.Format != "" {
		var err error

		format, err = export.ParseFormat(rt.cfg.CLI.Format)
		if err != nil {
			return err
		}
	}

	if rt.cfg.CLI.JSON {
		format = export.FormatJSON
	}

	f, err := view.ParseFilter(rt.cfg.CLI.Filter)
	if err != nil {
		return err
	}

	what := "sessions"

	var write func(io.Writer) error

	opts := export.Options{Now: rt.now()}

	if rt.cfg.CLI.Summary {
		r, err := rt.report(ctx)
		if err != nil {
			return err
		}

		what = "summary"
		write = func(w io.Writer) error {
			if format == export.FormatJSON {
				return export.SummaryJSON(w, r)
			}

			return export.SummaryCSV(w, r)
		}
	} else {
		sessions, err := rt.sortedSessions(ctx)
		if err != nil {
			return err
		}

		write = func(w io.Writer) error {
			if format == export.FormatJSON {
				return export.SessionsJSON(w, sessions, opts)
			}

			return export.SessionsCSV(w, sessions, opts)
		}
	}

	path, err := rt.exportPath(what, f, format)
	if err != nil {
		return err
	}

	if path == stdoutPath {
		return write(config.Stdout)
	}

	if err := export.ToFile(path, write); err != nil {
		return err
	}

	rt.logger.Info("exported", slog.String("path", path), slog.String("what", what))

	ui.Success(config.Stdout, "Exported to "+path)

	return nil
}
