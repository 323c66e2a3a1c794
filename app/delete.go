package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/drills/internal/config"
	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/ui"
	"github.com/ayoisaiah/drills/internal/view"
)

func joinIDs(ids []int) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = fmt.Sprintf("#%d", id)
	}

	return strings.Join(s, ", ")
}

// deleteAll asks once for every id, then deletes them in order and stops at
// the first failure.
func (rt *runtime) deleteAll(
	ctx context.Context,
	kind string,
	ids []int,
	del func(context.Context, int) error,
) error {
	prompt := fmt.Sprintf("Delete %s %s permanently?", kind, joinIDs(ids))
	if !confirm(rt, prompt) {
		return errAborted
	}

	for _, id := range ids {
		if err := del(ctx, id); err != nil {
			return err
		}

		rt.printToasts()
	}

	return nil
}

// deleteUsersAction handles the users delete command. It requests for
// confirmation before proceeding with the operation.
func deleteUsersAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	ids, err := argIDs(c, "user")
	if err != nil {
		return err
	}

	return rt.deleteAll(ctx, "user", ids, rt.cache.DeleteUser)
}

// deleteDrillsAction handles the drills delete command. The backend removes
// the sessions of a deleted drill too.
func deleteDrillsAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	ids, err := argIDs(c, "drill")
	if err != nil {
		return err
	}

	return rt.deleteAll(ctx, "drill", ids, rt.cache.DeleteDrill)
}

// deleteSessionAction removes every session of one user on one drill. The
// matching sessions are printed before asking for confirmation.
func deleteSessionAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	userID, drillID := c.Int("user"), c.Int("drill")

	all, err := rt.cache.Sessions(ctx, view.FilterAll)
	if err != nil {
		return err
	}

	var matched []models.UserDrill

	for i := range all {
		if all[i].UserID == userID && all[i].DrillID == drillID {
			matched = append(matched, all[i])
		}
	}

	if len(matched) == 0 {
		ui.Info(config.Stdout, noSessionsMsg)
		return nil
	}

	if !rt.cfg.CLI.Yes {
		if err := ui.PrintTable(ui.SessionRows(matched, rt.now()), config.Stdout); err != nil {
			return err
		}
	}

	prompt := fmt.Sprintf("The %d sessions above will be deleted permanently. Continue?", len(matched))
	if !confirm(rt, prompt) {
		return errAborted
	}

	return rt.mutate(func() (any, error) {
		return nil, rt.cache.DeleteSession(ctx, userID, drillID)
	})
}
