package refresh

import (
	"context"

	"github.com/ayoisaiah/drills/internal/models"
)

func (c *Cache) CreateUser(
	ctx context.Context,
	req models.CreateUser,
) (models.User, error) {
	var user models.User

	err := c.mutate(ctx, CreateUser, 0, func(ctx context.Context) error {
		var err error
		user, err = c.backend.CreateUser(ctx, req)

		return err
	})

	return user, err
}

func (c *Cache) UpdateUser(
	ctx context.Context,
	req models.UpdateUser,
) (models.User, error) {
	var user models.User

	err := c.mutate(ctx, UpdateUser, req.UserID, func(ctx context.Context) error {
		var err error
		user, err = c.backend.UpdateUser(ctx, req)

		return err
	})

	return user, err
}

func (c *Cache) DeleteUser(ctx context.Context, userID int) error {
	return c.mutate(ctx, DeleteUser, userID, func(ctx context.Context) error {
		return c.backend.DeleteUser(ctx, userID)
	})
}

func (c *Cache) CreateDrill(
	ctx context.Context,
	req models.CreateDrill,
) (models.Drill, error) {
	var drill models.Drill

	err := c.mutate(ctx, CreateDrill, 0, func(ctx context.Context) error {
		var err error
		drill, err = c.backend.CreateDrill(ctx, req)

		return err
	})

	return drill, err
}

func (c *Cache) UpdateDrill(
	ctx context.Context,
	req models.UpdateDrill,
) (models.Drill, error) {
	var drill models.Drill

	err := c.mutate(ctx, UpdateDrill, req.DrillID, func(ctx context.Context) error {
		var err error
		drill, err = c.backend.UpdateDrill(ctx, req)

		return err
	})

	return drill, err
}

// DeleteDrill also removes the drill's sessions on the server.
func (c *Cache) DeleteDrill(ctx context.Context, drillID int) error {
	return c.mutate(ctx, DeleteDrill, drillID, func(ctx context.Context) error {
		return c.backend.DeleteDrill(ctx, drillID)
	})
}

func (c *Cache) StartDrill(ctx context.Context, req models.StartStop) error {
	return c.mutate(ctx, StartDrill, req.DrillID, func(ctx context.Context) error {
		_, err := c.backend.StartDrill(ctx, req)
		return err
	})
}

func (c *Cache) StopDrill(ctx context.Context, req models.StartStop) error {
	return c.mutate(ctx, StopDrill, req.DrillID, func(ctx context.Context) error {
		_, err := c.backend.StopDrill(ctx, req)
		return err
	})
}

func (c *Cache) DeleteSession(ctx context.Context, userID, drillID int) error {
	return c.mutate(ctx, DeleteSession, drillID, func(ctx context.Context) error {
		return c.backend.DeleteSession(ctx, userID, drillID)
	})
}
