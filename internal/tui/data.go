package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/notify"
	"github.com/ayoisaiah/drills/internal/pending"
	"github.com/ayoisaiah/drills/internal/refresh"
	"github.com/ayoisaiah/drills/internal/view"
)

// deps is shared by every view. Models are copied on each update, so
// anything mutable lives behind these pointers.
type deps struct {
	ctx      context.Context
	cache    *refresh.Cache
	busy     *pending.Set[string]
	confirm  *pending.Confirm[string]
	comparer *view.Comparer
	logger   *slog.Logger
}

// fetch names the collections a view needs.
type fetch struct {
	filter   view.Filter
	users    bool
	drills   bool
	sessions bool
}

func (d *deps) load(v viewState, seq int, f fetch) tea.Cmd {
	return func() tea.Msg {
		msg := loadedMsg{view: v, seq: seq}

		g, ctx := errgroup.WithContext(d.ctx)

		if f.users {
			g.Go(func() error {
				var err error
				msg.users, err = d.cache.Users(ctx)

				return err
			})
		}

		if f.drills {
			g.Go(func() error {
				var err error
				msg.drills, err = d.cache.Drills(ctx)

				return err
			})
		}

		if f.sessions {
			g.Go(func() error {
				var err error
				msg.sessions, err = d.cache.Sessions(ctx, f.filter)

				return err
			})
		}

		msg.err = g.Wait()
		if msg.err != nil {
			d.logger.Warn(
				"load failed",
				slog.String("view", v.String()),
				slog.Any("error", msg.err),
			)
		}

		return msg
	}
}

// mutate runs fn unless another operation holds key. The cache reports the
// outcome on the notification bus; the returned message only releases key
// and triggers a reload.
func (d *deps) mutate(
	v viewState,
	key string,
	fn func(ctx context.Context) error,
) tea.Cmd {
	if !d.busy.Begin(key) {
		return statusCmd("Already in progress", false)
	}

	return func() tea.Msg {
		return mutatedMsg{err: fn(d.ctx), key: key, view: v}
	}
}

// confirmPress arms key on the first press and reports true on a second
// press within the confirmation window.
func (d *deps) confirmPress(key string, now time.Time) bool {
	return d.confirm.Press(key, now)
}

func (d *deps) armed(key string, now time.Time) bool {
	return d.confirm.Armed(key, now)
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func waitForTick(ch <-chan time.Time) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}

		return tickMsg(t)
	}
}

func waitForRefresh(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}

		return refreshedMsg{}
	}
}

func waitForToast(ch <-chan notify.Toast) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}

		return toastMsg(t)
	}
}

func userKey(op string, id int) string {
	return fmt.Sprintf("%s/user/%d", op, id)
}

func drillKey(op string, id int) string {
	return fmt.Sprintf("%s/drill/%d", op, id)
}

func sessionKey(op string, ud *models.UserDrill) string {
	return fmt.Sprintf("%s/session/%d", op, ud.ID)
}
