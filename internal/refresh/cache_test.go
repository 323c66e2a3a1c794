package refresh

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/drills/internal/api"
	"github.com/ayoisaiah/drills/internal/api/apitest"
	"github.com/ayoisaiah/drills/internal/clock"
	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/notify"
	"github.com/ayoisaiah/drills/internal/view"
)

var start = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type memSnapshots struct {
	data map[string][]byte
	mu   sync.Mutex
}

func (m *memSnapshots) SaveSnapshot(key string, data []byte, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		m.data = make(map[string][]byte)
	}

	m.data[key] = data

	return nil
}

func (m *memSnapshots) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range m.data {
		keys = append(keys, k)
	}

	return keys
}

func setup(t *testing.T, opts ...Option) (*Cache, *apitest.Server) {
	t.Helper()

	srv := apitest.NewServer(apitest.WithClock(clock.NewFixed(start)))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	c, err := New(client, opts...)
	require.NoError(t, err)

	return c, srv
}

func TestInvalidationGraph(t *testing.T) {
	sessions := []Key{"sessions/all", "sessions/active", "sessions/completed"}

	cases := map[Mutation][]Key{
		CreateUser:    {KeyUsers},
		UpdateUser:    append([]Key{KeyUsers}, sessions...),
		DeleteUser:    append([]Key{KeyUsers}, sessions...),
		CreateDrill:   {KeyDrills},
		UpdateDrill:   append([]Key{KeyDrills}, sessions...),
		DeleteDrill:   append([]Key{KeyDrills}, sessions...),
		StartDrill:    append([]Key{KeyDrills}, sessions...),
		StopDrill:     append([]Key{KeyDrills}, sessions...),
		DeleteSession: append([]Key{KeyDrills}, sessions...),
	}

	for m, want := range cases {
		assert.ElementsMatch(t, want, m.Invalidates(), m)
	}
}

func TestReadsAreCached(t *testing.T) {
	ctx := context.Background()
	c, srv := setup(t)

	srv.AddUser("Olena", "Kovalenko", nil)

	for range 3 {
		users, err := c.Users(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	}

	assert.Equal(t, 1, srv.Hits(api.Paths.ListUsers))
}

func TestUserMutationRefetchesUsersOnly(t *testing.T) {
	ctx := context.Background()
	c, srv := setup(t)

	_, err := c.Users(ctx)
	require.NoError(t, err)

	_, err = c.Drills(ctx)
	require.NoError(t, err)

	_, err = c.Sessions(ctx, view.FilterAll)
	require.NoError(t, err)

	_, err = c.CreateUser(ctx, models.CreateUser{FirstName: "Olena", LastName: "Kovalenko"})
	require.NoError(t, err)

	_, stale, ok := c.FetchedAt(KeyUsers)
	require.True(t, ok)
	assert.True(t, stale)

	users, err := c.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = c.Drills(ctx)
	require.NoError(t, err)

	_, err = c.Sessions(ctx, view.FilterAll)
	require.NoError(t, err)

	assert.Equal(t, 2, srv.Hits(api.Paths.ListUsers))
	assert.Equal(t, 1, srv.Hits(api.Paths.ListDrills))
	assert.Equal(t, 1, srv.Hits(api.Paths.ListSessions))

	active := c.Notifier().Active(time.Now())
	require.Len(t, active, 1)
	assert.Equal(t, notify.KindSuccess, active[0].Kind)
	assert.Equal(t, "User created", active[0].Message)
}

func TestDeleteDrillRemovesSessionsOnNextRead(t *testing.T) {
	ctx := context.Background()
	c, srv := setup(t)

	u := srv.AddUser("Olena", "Kovalenko", nil)
	sprint := srv.AddDrill("Sprint", 10)
	plank := srv.AddDrill("Plank", 5)
	srv.AddSession(u, sprint, start, nil)
	srv.AddSession(u, plank, start, nil)

	all, err := c.Sessions(ctx, view.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 2)

	active, err := c.Sessions(ctx, view.FilterActive)
	require.NoError(t, err)
	require.Len(t, active, 2)

	require.NoError(t, c.DeleteDrill(ctx, sprint))

	for _, f := range []view.Filter{view.FilterAll, view.FilterActive} {
		got, err := c.Sessions(ctx, f)
		require.NoError(t, err)
		require.Len(t, got, 1, f)
		assert.Equal(t, plank, got[0].DrillID)
	}

	drills, err := c.Drills(ctx)
	require.NoError(t, err)
	require.Len(t, drills, 1)
}

func TestEditsRefreshEmbeddedSessionData(t *testing.T) {
	ctx := context.Background()
	c, srv := setup(t)

	u := srv.AddUser("Olena", "Kovalenko", nil)
	d := srv.AddDrill("Sprint", 1)
	srv.AddSession(u, d, start, nil)

	sessions, err := c.Sessions(ctx, view.FilterAll)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.InDelta(t, 1.0, sessions[0].PricePerMinute(), 1e-9)

	_, err = c.UpdateDrill(ctx, models.UpdateDrill{DrillID: d, Title: "Sprint", PricePerMinute: 10})
	require.NoError(t, err)

	_, stale, ok := c.FetchedAt(SessionsKey(view.FilterAll))
	require.True(t, ok)
	assert.True(t, stale)

	sessions, err = c.Sessions(ctx, view.FilterAll)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.InDelta(t, 10.0, sessions[0].PricePerMinute(), 1e-9)

	_, err = c.UpdateUser(ctx, models.UpdateUser{UserID: u, FirstName: "Iryna", LastName: "Kovalenko"})
	require.NoError(t, err)

	sessions, err = c.Sessions(ctx, view.FilterAll)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Iryna Kovalenko", sessions[0].UserName())

	assert.Equal(t, 3, srv.Hits(api.Paths.ListSessions))
}

func TestFailedMutationKeepsCache(t *testing.T) {
	ctx := context.Background()
	c, srv := setup(t)

	d := srv.AddDrill("Sprint", 10)

	_, err := c.Drills(ctx)
	require.NoError(t, err)

	srv.Fail(api.Paths.DeleteDrill, http.StatusInternalServerError, "locked")

	err = c.DeleteDrill(ctx, d)
	require.Error(t, err)

	_, stale, _ := c.FetchedAt(KeyDrills)
	assert.False(t, stale)

	drills, err := c.Drills(ctx)
	require.NoError(t, err)
	assert.Len(t, drills, 1)
	assert.Equal(t, 1, srv.Hits(api.Paths.ListDrills))

	toasts := c.Notifier().Active(time.Now())
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.KindError, toasts[0].Kind)
	assert.Equal(t, "Failed to delete drill: locked", toasts[0].Message)
}

func TestHookRunsAfterSuccess(t *testing.T) {
	ctx := context.Background()

	var got []Mutation

	c, srv := setup(t, WithHook(func(_ context.Context, m Mutation, _ int) {
		got = append(got, m)
	}))

	u := srv.AddUser("Olena", "Kovalenko", nil)
	d := srv.AddDrill("Sprint", 10)

	require.NoError(t, c.StartDrill(ctx, models.StartStop{DrillID: d, UserIDs: []int{u}}))
	require.Error(t, c.StartDrill(ctx, models.StartStop{DrillID: d, UserIDs: []int{u}}))
	require.NoError(t, c.StopDrill(ctx, models.StartStop{DrillID: d, UserIDs: []int{u}}))

	assert.Equal(t, []Mutation{StartDrill, StopDrill}, got)
}

// gatedBackend fetches users, then holds the first result until release is
// closed.
type gatedBackend struct {
	Backend
	entered chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (g *gatedBackend) ListUsers(ctx context.Context) ([]models.User, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	users, err := g.Backend.ListUsers(ctx)

	if first {
		close(g.entered)
		<-g.release
	}

	return users, err
}

func TestFetchStartedBeforeInvalidationIsDropped(t *testing.T) {
	ctx := context.Background()

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	gated := &gatedBackend{
		Backend: client,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	c, err := New(gated)
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = c.Users(ctx)
	}()

	<-gated.entered
	c.Invalidate(KeyUsers)
	close(gated.release)
	<-done

	_, _, ok := c.FetchedAt(KeyUsers)
	assert.False(t, ok)

	_, err = c.Users(ctx)
	require.NoError(t, err)

	_, _, ok = c.FetchedAt(KeyUsers)
	assert.True(t, ok)
	assert.Equal(t, 2, gated.calls)
}

func TestSlowReadDoesNotOverwriteRefresh(t *testing.T) {
	ctx := context.Background()

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	gated := &gatedBackend{
		Backend: client,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	c, err := New(gated)
	require.NoError(t, err)

	srv.AddUser("Olena", "Kovalenko", nil)

	done := make(chan []models.User, 1)

	go func() {
		users, _ := c.Users(ctx)
		done <- users
	}()

	<-gated.entered

	srv.AddUser("Iryna", "Bondar", nil)
	require.NoError(t, c.Refresh(ctx))

	close(gated.release)
	assert.Len(t, <-done, 1)

	users, err := c.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, gated.calls)
}

func TestPollRefetchesEveryCollection(t *testing.T) {
	snaps := &memSnapshots{}
	c, srv := setup(t, WithSnapshots(snaps))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Poll(ctx, 5*time.Millisecond)

	select {
	case <-c.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not refresh")
	}

	assert.GreaterOrEqual(t, srv.Hits(api.Paths.ListUsers), 1)
	assert.GreaterOrEqual(t, srv.Hits(api.Paths.ListDrills), 1)
	assert.GreaterOrEqual(t, srv.Hits(api.Paths.ListSessions), 1)
	assert.Zero(t, srv.Hits(api.Paths.ActiveSessions))

	assert.Subset(t, snaps.keys(), []string{"users", "drills", "sessions/all"})
}

func TestRefreshFailureDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	c, srv := setup(t)

	srv.AddDrill("Sprint", 10)
	srv.Fail(api.Paths.ListUsers, http.StatusInternalServerError, "boom")

	err := c.Refresh(ctx)
	require.Error(t, err)

	_, _, ok := c.FetchedAt(KeyDrills)
	assert.True(t, ok)

	_, _, ok = c.FetchedAt(SessionsKey(view.FilterAll))
	assert.True(t, ok)

	_, _, ok = c.FetchedAt(KeyUsers)
	assert.False(t, ok)
}
