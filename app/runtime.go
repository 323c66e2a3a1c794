package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/drills/internal/api"
	"github.com/ayoisaiah/drills/internal/api/apitest"
	"github.com/ayoisaiah/drills/internal/config"
	"github.com/ayoisaiah/drills/internal/logging"
	"github.com/ayoisaiah/drills/internal/notify"
	"github.com/ayoisaiah/drills/internal/pathutil"
	"github.com/ayoisaiah/drills/internal/refresh"
	"github.com/ayoisaiah/drills/internal/store"
	"github.com/ayoisaiah/drills/internal/ui"
	"github.com/ayoisaiah/drills/internal/view"
)

// runtime holds everything a command needs. close must be called when the
// command returns.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *store.Client
	bus      *notify.Bus
	cache    *refresh.Cache
	comparer *view.Comparer
	started  time.Time
	closers  []func() error
}

type runtimeOption func(*runtimeSettings)

type runtimeSettings struct {
	prompt bool
}

// withFirstRunPrompt asks for the backend address when no config file
// exists yet.
func withFirstRunPrompt() runtimeOption {
	return func(s *runtimeSettings) {
		s.prompt = true
	}
}

func newRuntime(ctx *cli.Context, opts ...runtimeOption) (*runtime, error) {
	var settings runtimeSettings

	for _, opt := range opts {
		opt(&settings)
	}

	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	configOpts := []config.Option{}

	if settings.prompt {
		configOpts = append(configOpts, config.WithPromptConfig(pathutil.ConfigFilePath()))
	}

	configOpts = append(configOpts,
		config.WithViperConfig(pathutil.ConfigFilePath()),
		config.WithEnv(),
		config.WithCLIConfig(ctx),
	)

	cfg, err := config.New(configOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.CLI.Demo && cfg.CLI.Offline {
		return nil, errModeConflict
	}

	rt := &runtime{cfg: cfg, started: time.Now()}

	logger, closeLog, err := logging.Setup(pathutil.LogFilePath(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	rt.logger = logger
	rt.closers = append(rt.closers, closeLog)

	ui.Configure(cfg.Display.DarkTheme, cfg.CLI.NoColor || !pterm.PrintColor)

	rt.db, err = store.NewClient(pathutil.DBFilePath())
	if err != nil {
		_ = rt.close()
		return nil, err
	}

	rt.closers = append(rt.closers, rt.db.Close)

	if err := rt.wire(); err != nil {
		_ = rt.close()
		return nil, err
	}

	logger.Debug(
		"runtime ready",
		slog.String("api", cfg.API.BaseURL),
		slog.Bool("demo", cfg.CLI.Demo),
		slog.Bool("offline", cfg.CLI.Offline),
	)

	return rt, nil
}

// wire builds the backend, the notification bus and the cache.
func (rt *runtime) wire() error {
	cfg := rt.cfg

	var (
		backend   refresh.Backend
		snapshots refresh.SnapshotStore
	)

	switch {
	case cfg.CLI.Offline:
		backend = offlineBackend{src: rt.db}
	case cfg.CLI.Demo:
		srv := apitest.NewServer()
		srv.Seed()

		rt.closers = append(rt.closers, func() error {
			srv.Close()
			return nil
		})

		client, err := api.New(
			srv.URL,
			api.WithHTTPClient(srv.Client()),
			api.WithTimeout(cfg.API.Timeout),
			api.WithLogger(logging.Component(rt.logger, "api")),
		)
		if err != nil {
			return err
		}

		backend = client
	default:
		client, err := api.New(
			cfg.API.BaseURL,
			api.WithTimeout(cfg.API.Timeout),
			api.WithLogger(logging.Component(rt.logger, "api")),
		)
		if err != nil {
			return err
		}

		backend = client
		snapshots = rt.db
	}

	rt.bus = notify.New(
		notify.WithLifetime(cfg.Notifications.Lifetime),
		notify.WithDesktop(cfg.Notifications.Desktop),
		notify.WithLogger(logging.Component(rt.logger, "notify")),
	)

	hook, err := newHook(cfg.Hooks.AfterMutation, logging.Component(rt.logger, "hook"))
	if err != nil {
		return err
	}

	cacheOpts := []refresh.Option{
		refresh.WithNotifier(rt.bus),
		refresh.WithLogger(logging.Component(rt.logger, "refresh")),
	}

	if snapshots != nil {
		cacheOpts = append(cacheOpts, refresh.WithSnapshots(snapshots))
	}

	if hook != nil {
		cacheOpts = append(cacheOpts, refresh.WithHook(hook))
	}

	rt.cache, err = refresh.New(backend, cacheOpts...)
	if err != nil {
		return err
	}

	rt.comparer, err = view.NewComparer(cfg.Display.Locale, cfg.Display.NaturalSort)

	return err
}

func (rt *runtime) close() error {
	var errs []error

	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	rt.closers = nil

	return errors.Join(errs...)
}

// now is the reference instant for every duration printed by one command.
func (rt *runtime) now() time.Time {
	return rt.started
}

// printToasts reports the outcome of a mutation the way the dashboard
// footer would.
func (rt *runtime) printToasts() {
	for _, t := range rt.bus.Active(time.Now()) {
		switch t.Kind {
		case notify.KindSuccess:
			ui.Success(config.Stdout, t.Message)
		case notify.KindError:
			ui.Failure(config.Stdout, t.Message)
		default:
			ui.Info(config.Stdout, t.Message)
		}

		rt.bus.Dismiss(t.ID)
	}
}

// withRuntime wraps an action that needs a runtime.
func withRuntime(
	fn func(ctx context.Context, c *cli.Context, rt *runtime) error,
	opts ...runtimeOption,
) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := newRuntime(c, opts...)
		if err != nil {
			return err
		}

		defer func() {
			if err := rt.close(); err != nil {
				slog.Warn("shutdown failed", slog.Any("error", err))
			}
		}()

		return fn(c.Context, c, rt)
	}
}
