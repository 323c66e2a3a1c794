// Package refresh keeps the client's copy of server collections consistent.
// Reads are served from a small cache until a mutation or the poller marks a
// collection stale; the next read then refetches it.
package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ayoisaiah/drills/internal/clock"
	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/notify"
	"github.com/ayoisaiah/drills/internal/view"
)

// DefaultInterval is how often Poll refetches every collection.
const DefaultInterval = 30 * time.Second

const cacheSize = 16

// Backend is the subset of the API client used by the cache.
type Backend interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req models.CreateUser) (models.User, error)
	UpdateUser(ctx context.Context, req models.UpdateUser) (models.User, error)
	DeleteUser(ctx context.Context, userID int) error
	ListDrills(ctx context.Context) ([]models.Drill, error)
	CreateDrill(ctx context.Context, req models.CreateDrill) (models.Drill, error)
	UpdateDrill(ctx context.Context, req models.UpdateDrill) (models.Drill, error)
	DeleteDrill(ctx context.Context, drillID int) error
	StartDrill(ctx context.Context, req models.StartStop) (models.Drill, error)
	StopDrill(ctx context.Context, req models.StartStop) (models.Drill, error)
	ListSessions(ctx context.Context, f view.Filter) ([]models.UserDrill, error)
	DeleteSession(ctx context.Context, userID, drillID int) error
}

// SnapshotStore persists the last successful fetch of each collection.
type SnapshotStore interface {
	SaveSnapshot(key string, data []byte, fetchedAt time.Time) error
}

// Hook runs after every successful mutation.
type Hook func(ctx context.Context, m Mutation, id int)

type entry struct {
	fetchedAt time.Time
	data      any
	stale     bool
}

// Cache is safe for concurrent use. Slices it returns are shared and must
// not be modified.
type Cache struct {
	backend   Backend
	entries   *lru.Cache[Key, *entry]
	gens      map[Key]uint64
	bus       *notify.Bus
	snapshots SnapshotStore
	hook      Hook
	logger    *slog.Logger
	clock     clock.Clock
	updates   chan struct{}
	mu        sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithNotifier publishes mutation results to bus.
func WithNotifier(bus *notify.Bus) Option {
	return func(c *Cache) {
		c.bus = bus
	}
}

func WithSnapshots(s SnapshotStore) Option {
	return func(c *Cache) {
		c.snapshots = s
	}
}

func WithHook(h Hook) Option {
	return func(c *Cache) {
		c.hook = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

func WithClock(cl clock.Clock) Option {
	return func(c *Cache) {
		c.clock = cl
	}
}

// New returns an empty cache in front of backend.
func New(backend Backend, opts ...Option) (*Cache, error) {
	entries, err := lru.New[Key, *entry](cacheSize)
	if err != nil {
		return nil, errCacheInit.Wrap(err)
	}

	c := &Cache{
		backend: backend,
		entries: entries,
		gens:    make(map[Key]uint64),
		logger:  slog.New(slog.DiscardHandler),
		clock:   clock.Real{},
		updates: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.bus == nil {
		c.bus = notify.New(notify.WithClock(c.clock))
	}

	return c, nil
}

// Notifier returns the bus that receives mutation toasts.
func (c *Cache) Notifier() *notify.Bus {
	return c.bus
}

// Updates receives a value after every Refresh. Signals are coalesced.
func (c *Cache) Updates() <-chan struct{} {
	return c.updates
}

func (c *Cache) Users(ctx context.Context) ([]models.User, error) {
	return load(ctx, c, KeyUsers, false, c.backend.ListUsers)
}

func (c *Cache) Drills(ctx context.Context) ([]models.Drill, error) {
	return load(ctx, c, KeyDrills, false, c.backend.ListDrills)
}

func (c *Cache) Sessions(
	ctx context.Context,
	f view.Filter,
) ([]models.UserDrill, error) {
	return load(
		ctx,
		c,
		SessionsKey(f),
		false,
		func(ctx context.Context) ([]models.UserDrill, error) {
			return c.backend.ListSessions(ctx, f)
		},
	)
}

// FetchedAt returns when key was last stored and whether it is stale.
func (c *Cache) FetchedAt(key Key) (at time.Time, stale, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(key)
	if !ok {
		return time.Time{}, false, false
	}

	return e.fetchedAt, e.stale, true
}

// Invalidate marks keys stale so the next read refetches them. Fetches that
// started before the call are not stored.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		c.gens[key]++

		if e, ok := c.entries.Peek(key); ok {
			e.stale = true
		}
	}
}

func load[T any](
	ctx context.Context,
	c *Cache,
	key Key,
	force bool,
	fetch func(context.Context) (T, error),
) (T, error) {
	c.mu.Lock()

	if e, ok := c.entries.Get(key); ok && !e.stale && !force {
		data, _ := e.data.(T)
		c.mu.Unlock()

		return data, nil
	}

	// A forced fetch supersedes any read already in flight.
	if force {
		c.gens[key]++
	}

	gen := c.gens[key]

	c.mu.Unlock()

	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, errFetch.Fmt(key).Wrap(err)
	}

	fetchedAt := c.clock.Now()

	c.mu.Lock()

	current := c.gens[key] == gen
	if current {
		c.entries.Add(key, &entry{data: data, fetchedAt: fetchedAt})
	}

	c.mu.Unlock()

	if !current {
		c.logger.Debug("dropping superseded fetch", slog.String("key", string(key)))
		return data, nil
	}

	c.snapshot(key, data, fetchedAt)

	return data, nil
}

func (c *Cache) snapshot(key Key, data any, fetchedAt time.Time) {
	if c.snapshots == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err == nil {
		err = c.snapshots.SaveSnapshot(string(key), raw, fetchedAt)
	}

	if err != nil {
		c.logger.Warn(
			"saving snapshot failed",
			slog.String("key", string(key)),
			slog.Any("error", err),
		)
	}
}

// Refresh refetches users, drills and every sessions collection that has
// been read before. Each fetch runs independently; a failure is logged and
// does not stop the others. The first error is returned.
func (c *Cache) Refresh(ctx context.Context) error {
	var g errgroup.Group

	run := func(key Key, fn func() error) {
		g.Go(func() error {
			err := fn()
			if err != nil {
				c.logger.Warn(
					"refetch failed",
					slog.String("key", string(key)),
					slog.Any("error", err),
				)
			}

			return err
		})
	}

	run(KeyUsers, func() error {
		_, err := load(ctx, c, KeyUsers, true, c.backend.ListUsers)
		return err
	})

	run(KeyDrills, func() error {
		_, err := load(ctx, c, KeyDrills, true, c.backend.ListDrills)
		return err
	})

	for _, f := range c.sessionFilters() {
		run(SessionsKey(f), func() error {
			_, err := load(
				ctx,
				c,
				SessionsKey(f),
				true,
				func(ctx context.Context) ([]models.UserDrill, error) {
					return c.backend.ListSessions(ctx, f)
				},
			)

			return err
		})
	}

	err := g.Wait()

	select {
	case c.updates <- struct{}{}:
	default:
	}

	return err
}

func (c *Cache) sessionFilters() []view.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()

	filters := []view.Filter{view.FilterAll}

	for _, f := range view.Filters {
		if f != view.FilterAll && c.entries.Contains(SessionsKey(f)) {
			filters = append(filters, f)
		}
	}

	return filters
}

// Poll calls Refresh every interval until ctx is cancelled.
func (c *Cache) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

func (c *Cache) mutate(
	ctx context.Context,
	m Mutation,
	id int,
	fn func(context.Context) error,
) error {
	msg := mutationMessages[m]

	if err := fn(ctx); err != nil {
		c.bus.Error(fmt.Sprintf(msg.failure, err.Error()))

		c.logger.Warn(
			"mutation failed",
			slog.String("mutation", string(m)),
			slog.Int("id", id),
			slog.Any("error", err),
		)

		return err
	}

	c.Invalidate(m.Invalidates()...)
	c.bus.Success(msg.success)

	c.logger.Info(
		"mutation succeeded",
		slog.String("mutation", string(m)),
		slog.Int("id", id),
	)

	if c.hook != nil {
		c.hook(ctx, m, id)
	}

	return nil
}
