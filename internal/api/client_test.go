package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/drills/internal/api"
	"github.com/ayoisaiah/drills/internal/api/apitest"
	"github.com/ayoisaiah/drills/internal/clock"
	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/timeutil"
	"github.com/ayoisaiah/drills/internal/view"
)

var start = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newClient(t *testing.T, opts ...apitest.Option) (*api.Client, *apitest.Server) {
	t.Helper()

	srv := apitest.NewServer(opts...)
	t.Cleanup(srv.Close)

	c, err := api.New(srv.URL, api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	return c, srv
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "://nope"} {
		_, err := api.New(u)
		assert.Error(t, err, u)
	}
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	email := "olena@example.com"

	created, err := c.CreateUser(ctx, models.CreateUser{
		FirstName: "Olena",
		LastName:  "Kovalenko",
		Email:     &email,
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.True(t, created.CreatedAt.Valid())

	updated, err := c.UpdateUser(ctx, models.UpdateUser{
		UserID:    created.ID,
		FirstName: "Olena",
		LastName:  "Shevchuk",
	})
	require.NoError(t, err)
	assert.Equal(t, "Shevchuk", updated.LastName)
	assert.Nil(t, updated.Email)

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, c.DeleteUser(ctx, created.ID))

	users, err = c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	c, srv := newClient(t)

	_, err := c.CreateUser(ctx, models.CreateUser{FirstName: "Only"})
	require.Error(t, err)

	_, err = c.CreateDrill(ctx, models.CreateDrill{Title: " "})
	require.Error(t, err)

	_, err = c.CreateDrill(ctx, models.CreateDrill{Title: "Sprint", PricePerMinute: -1})
	require.Error(t, err)

	_, err = c.StartDrill(ctx, models.StartStop{DrillID: 1})
	require.Error(t, err)

	assert.Zero(t, srv.Hits(api.Paths.CreateUser))
	assert.Zero(t, srv.Hits(api.Paths.CreateDrill))
	assert.Zero(t, srv.Hits(api.Paths.Start))
}

func TestErrorMessage(t *testing.T) {
	ctx := context.Background()
	c, srv := newClient(t)

	srv.Fail(api.Paths.ListUsers, http.StatusInternalServerError, "database is down")

	_, err := c.ListUsers(ctx)
	require.Error(t, err)
	assert.Equal(t, "database is down", err.Error())
	assert.True(t, api.IsStatus(err, http.StatusInternalServerError))

	srv.Fail(api.Paths.ListUsers, http.StatusBadGateway, "")

	_, err = c.ListUsers(ctx)
	require.Error(t, err)
	assert.Equal(t, api.DefaultErrorMessage, err.Error())
}

func TestStartStopAndFilters(t *testing.T) {
	ctx := context.Background()
	fc := clock.NewFixed(start)
	c, srv := newClient(t, apitest.WithClock(fc), apitest.WithTimeFormat(apitest.TimeEpoch))

	u1 := srv.AddUser("Olena", "Kovalenko", nil)
	u2 := srv.AddUser("Taras", "Shevchuk", nil)
	d := srv.AddDrill("Sprint", 10)

	_, err := c.StartDrill(ctx, models.StartStop{DrillID: d, UserIDs: []int{u1, u2}})
	require.NoError(t, err)

	_, err = c.StartDrill(ctx, models.StartStop{DrillID: d, UserIDs: []int{u1}})
	assert.True(t, api.IsStatus(err, http.StatusConflict), "one active session per user and drill")

	fc.Advance(90 * time.Second)

	_, err = c.StopDrill(ctx, models.StartStop{DrillID: d, UserIDs: []int{u1}})
	require.NoError(t, err)

	active, err := c.ListSessions(ctx, view.FilterActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, u2, active[0].UserID)
	assert.Equal(t, timeutil.SourceEpoch, active[0].StartedAt.Source())

	completed, err := c.ListSessions(ctx, view.FilterCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)

	m := completed[0].Metrics(fc.Now())
	assert.Equal(t, 90*time.Second, m.Duration)
	assert.InDelta(t, 15.0, m.Cost, 1e-9)
	assert.Equal(t, "Olena Kovalenko", completed[0].UserName())

	all, err := c.ListSessions(ctx, view.FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteDrillCascades(t *testing.T) {
	ctx := context.Background()
	c, srv := newClient(t, apitest.WithTimeFormat(apitest.TimeEpochString))

	u := srv.AddUser("Olena", "Kovalenko", nil)
	d := srv.AddDrill("Sprint", 10)
	srv.AddSession(u, d, start, nil)

	drills, err := c.ListDrills(ctx)
	require.NoError(t, err)
	require.Len(t, drills, 1)
	assert.Len(t, drills[0].Users, 1)

	require.NoError(t, c.DeleteDrill(ctx, d))

	sessions, err := c.ListSessions(ctx, view.FilterAll)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	c, srv := newClient(t)

	u := srv.AddUser("Olena", "Kovalenko", nil)
	d := srv.AddDrill("Sprint", 10)
	stopped := start.Add(time.Minute)
	srv.AddSession(u, d, start, &stopped)

	require.NoError(t, c.DeleteSession(ctx, u, d))

	err := c.DeleteSession(ctx, u, d)
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
}
