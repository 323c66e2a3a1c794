package app

import (
	"context"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/view"
)

// mutate runs fn and prints the notifications it raised. A failed mutation
// returns its error for the caller to print instead.
func (rt *runtime) mutate(fn func() (any, error)) error {
	v, err := fn()
	if err != nil {
		return err
	}

	if rt.cfg.CLI.JSON && v != nil {
		return printJSON(v)
	}

	rt.printToasts()

	return nil
}

func optionalEmail(ctx *cli.Context) *string {
	if !ctx.IsSet("email") {
		return nil
	}

	e := strings.TrimSpace(ctx.String("email"))
	if e == "" {
		return nil
	}

	return &e
}

func createUserAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	req := models.CreateUser{
		FirstName: strings.TrimSpace(c.String("first")),
		LastName:  strings.TrimSpace(c.String("last")),
		Email:     optionalEmail(c),
	}

	return rt.mutate(func() (any, error) {
		return rt.cache.CreateUser(ctx, req)
	})
}

// updateUserAction fills the fields that were not passed from the current
// user, since the backend replaces the whole record.
func updateUserAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	id, err := argID(c, "user")
	if err != nil {
		return err
	}

	users, err := rt.cache.Users(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return errUnknownUser.Fmt(id)
	}

	current := users[i]

	req := models.UpdateUser{
		UserID:    id,
		FirstName: current.FirstName,
		LastName:  current.LastName,
		Email:     current.Email,
	}

	if c.IsSet("first") {
		req.FirstName = strings.TrimSpace(c.String("first"))
	}

	if c.IsSet("last") {
		req.LastName = strings.TrimSpace(c.String("last"))
	}

	if c.IsSet("email") {
		req.Email = optionalEmail(c)
	}

	return rt.mutate(func() (any, error) {
		return rt.cache.UpdateUser(ctx, req)
	})
}

func createDrillAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	req := models.CreateDrill{
		Title:          strings.TrimSpace(c.String("title")),
		PricePerMinute: c.Float64("price"),
	}

	return rt.mutate(func() (any, error) {
		return rt.cache.CreateDrill(ctx, req)
	})
}

func updateDrillAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	id, err := argID(c, "drill")
	if err != nil {
		return err
	}

	drills, err := rt.cache.Drills(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(drills, func(d models.Drill) bool { return d.ID == id })
	if i < 0 {
		return errUnknownDrill.Fmt(id)
	}

	req := models.UpdateDrill{
		DrillID:        id,
		Title:          drills[i].Title,
		PricePerMinute: drills[i].PricePerMinute,
	}

	if c.IsSet("title") {
		req.Title = strings.TrimSpace(c.String("title"))
	}

	if c.IsSet("price") {
		req.PricePerMinute = c.Float64("price")
	}

	return rt.mutate(func() (any, error) {
		return rt.cache.UpdateDrill(ctx, req)
	})
}

func startDrillAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	id, err := argID(c, "drill")
	if err != nil {
		return err
	}

	users := c.IntSlice("user")
	if len(users) == 0 {
		return errNoUsers
	}

	req := models.StartStop{DrillID: id, UserIDs: users}

	return rt.mutate(func() (any, error) {
		return nil, rt.cache.StartDrill(ctx, req)
	})
}

// stopDrillAction stops the drill for the given users. Without --user it
// stops everyone currently on the drill.
func stopDrillAction(ctx context.Context, c *cli.Context, rt *runtime) error {
	id, err := argID(c, "drill")
	if err != nil {
		return err
	}

	users := c.IntSlice("user")

	if len(users) == 0 {
		active, err := rt.cache.Sessions(ctx, view.FilterActive)
		if err != nil {
			return err
		}

		for i := range active {
			if active[i].DrillID == id && !slices.Contains(users, active[i].UserID) {
				users = append(users, active[i].UserID)
			}
		}

		if len(users) == 0 {
			return errNobodyActive.Fmt(id)
		}
	}

	req := models.StartStop{DrillID: id, UserIDs: users}

	return rt.mutate(func() (any, error) {
		return nil, rt.cache.StopDrill(ctx, req)
	})
}
