package app

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/drills/internal/config"
	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/report"
	"github.com/ayoisaiah/drills/internal/timeutil"
	"github.com/ayoisaiah/drills/internal/ui"
	"github.com/ayoisaiah/drills/internal/view"
)

const (
	noUsersMsg    = "No users yet"
	noDrillsMsg   = "No drills yet"
	noSessionsMsg = "No sessions found for the specified filter and time range"
)

// parseSort reads --sort and --order into a sort state. An empty --sort keeps
// def. A column other than the default one sorts descending unless --order
// says otherwise.
func parseSort[F ~string](
	cfg *config.Config,
	def view.Sort[F],
	parse func(string) (F, error),
) (view.Sort[F], error) {
	s := def

	if cfg.CLI.Sort != "" {
		f, err := parse(cfg.CLI.Sort)
		if err != nil {
			return s, err
		}

		if f != s.Field {
			s = view.Sort[F]{Field: f, Dir: view.Desc}
		}
	}

	if cfg.CLI.Order != "" {
		dir, err := view.ParseDirection(cfg.CLI.Order)
		if err != nil {
			return s, err
		}

		s.Dir = dir
	}

	return s, nil
}

// sessions returns the sessions picked by --filter that started inside the
// --period and --since range. Sessions with an unreadable start time are only
// kept for an open-ended range.
func (rt *runtime) sessions(ctx context.Context) ([]models.UserDrill, error) {
	f, err := view.ParseFilter(rt.cfg.CLI.Filter)
	if err != nil {
		return nil, err
	}

	sessions, err := rt.cache.Sessions(ctx, f)
	if err != nil {
		return nil, err
	}

	start, end := rt.cfg.CLI.StartTime, rt.cfg.CLI.EndTime
	if start.IsZero() && end.IsZero() {
		return sessions, nil
	}

	out := make([]models.UserDrill, 0, len(sessions))

	for i := range sessions {
		ts := sessions[i].StartedAt

		if !ts.Valid() {
			if start.IsZero() {
				out = append(out, sessions[i])
			}

			continue
		}

		if timeutil.Contains(ts.Time(), start, end) {
			out = append(out, sessions[i])
		}
	}

	return out, nil
}

// sortedSessions applies --sort and --order to rt.sessions.
func (rt *runtime) sortedSessions(ctx context.Context) ([]models.UserDrill, error) {
	s, err := parseSort(rt.cfg, view.DefaultSessionSort, view.ParseSessionField)
	if err != nil {
		return nil, err
	}

	sessions, err := rt.sessions(ctx)
	if err != nil {
		return nil, err
	}

	return view.SortSessions(sessions, s, rt.now(), rt.comparer), nil
}

// report summarises rt.sessions per drill in --sort order.
func (rt *runtime) report(ctx context.Context) (report.Report, error) {
	s, err := parseSort(rt.cfg, view.DefaultSummarySort, view.ParseSummaryField)
	if err != nil {
		return report.Report{}, err
	}

	sessions, err := rt.sessions(ctx)
	if err != nil {
		return report.Report{}, err
	}

	r := report.Summarize(sessions, rt.now(), rt.logger)
	r.Summaries = view.SortSummaries(r.Summaries, s, rt.comparer)

	return r, nil
}

func listUsersAction(ctx context.Context, _ *cli.Context, rt *runtime) error {
	s, err := parseSort(rt.cfg, view.DefaultUserSort, view.ParseUserField)
	if err != nil {
		return err
	}

	users, err := rt.cache.Users(ctx)
	if err != nil {
		return err
	}

	users = view.SortUsers(users, s, rt.comparer)

	if rt.cfg.CLI.JSON {
		return printJSON(users)
	}

	if len(users) == 0 {
		ui.Info(config.Stdout, noUsersMsg)
		return nil
	}

	return ui.PrintTable(ui.UserRows(users), config.Stdout)
}

// listDrillsAction prints every drill with the running time and cost of its
// active sessions.
func listDrillsAction(ctx context.Context, _ *cli.Context, rt *runtime) error {
	drills, err := rt.cache.Drills(ctx)
	if err != nil {
		return err
	}

	active, err := rt.cache.Sessions(ctx, view.FilterActive)
	if err != nil {
		return err
	}

	if rt.cfg.CLI.JSON {
		return printJSON(drills)
	}

	if len(drills) == 0 {
		ui.Info(config.Stdout, noDrillsMsg)
		return nil
	}

	return ui.PrintTable(ui.DrillRows(drills, active, rt.now()), config.Stdout)
}

func listSessionsAction(ctx context.Context, _ *cli.Context, rt *runtime) error {
	sessions, err := rt.sortedSessions(ctx)
	if err != nil {
		return err
	}

	if rt.cfg.CLI.JSON {
		return printJSON(sessions)
	}

	if len(sessions) == 0 {
		ui.Info(config.Stdout, noSessionsMsg)
		return nil
	}

	return ui.PrintTable(ui.SessionRows(sessions, rt.now()), config.Stdout)
}

func reportAction(ctx context.Context, _ *cli.Context, rt *runtime) error {
	r, err := rt.report(ctx)
	if err != nil {
		return err
	}

	if rt.cfg.CLI.JSON {
		return printJSON(r)
	}

	if len(r.Summaries) == 0 {
		ui.Info(config.Stdout, noSessionsMsg)
		return nil
	}

	if err := ui.PrintTable(ui.SummaryRows(r.Summaries, r.Totals), config.Stdout); err != nil {
		return err
	}

	if r.Skipped > 0 {
		ui.Warn(
			config.Stdout,
			pterm.Sprintf("%d sessions were left out because their drill is missing\n", r.Skipped),
		)
	}

	return nil
}
