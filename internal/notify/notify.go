// Package notify holds the short-lived messages shown after user actions.
package notify

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/ayoisaiah/drills/internal/clock"
)

// DefaultLifetime is how long a toast stays visible.
const DefaultLifetime = 5 * time.Second

type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Toast is a single notification.
type Toast struct {
	Created  time.Time
	Message  string
	Lifetime time.Duration
	ID       int
	Kind     Kind
}

// Expired reports whether the toast should no longer be shown at now.
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.Created.Add(t.Lifetime))
}

// Option configures a Bus.
type Option func(*Bus)

// WithLifetime sets the lifetime of new toasts.
func WithLifetime(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.lifetime = d
		}
	}
}

// WithClock replaces the clock used to stamp toasts.
func WithClock(c clock.Clock) Option {
	return func(b *Bus) {
		b.clock = c
	}
}

// WithDesktop forwards every toast to the desktop notification daemon.
func WithDesktop(enabled bool) Option {
	return func(b *Bus) {
		b.desktop = enabled
	}
}

// WithLogger sets the logger used to report desktop delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = l
	}
}

// Bus collects toasts and fans them out to subscribers.
type Bus struct {
	clock    clock.Clock
	logger   *slog.Logger
	subs     map[int]chan Toast
	toasts   []Toast
	lifetime time.Duration
	nextID   int
	nextSub  int
	mu       sync.Mutex
	desktop  bool
}

// New returns an empty Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		clock:    clock.Real{},
		logger:   slog.New(slog.DiscardHandler),
		subs:     make(map[int]chan Toast),
		lifetime: DefaultLifetime,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Bus) Success(msg string) Toast {
	return b.push(KindSuccess, msg)
}

func (b *Bus) Error(msg string) Toast {
	return b.push(KindError, msg)
}

func (b *Bus) Info(msg string) Toast {
	return b.push(KindInfo, msg)
}

func (b *Bus) push(kind Kind, msg string) Toast {
	b.mu.Lock()

	b.nextID++

	t := Toast{
		ID:       b.nextID,
		Kind:     kind,
		Message:  msg,
		Created:  b.clock.Now(),
		Lifetime: b.lifetime,
	}

	b.toasts = append(b.toasts, t)

	for _, ch := range b.subs {
		select {
		case ch <- t:
		default:
		}
	}

	desktop := b.desktop

	b.mu.Unlock()

	if desktop {
		b.forward(t)
	}

	return t
}

func (b *Bus) forward(t Toast) {
	var err error

	if t.Kind == KindError {
		err = beeep.Alert("drills", t.Message, "")
	} else {
		err = beeep.Notify("drills", t.Message, "")
	}

	if err != nil {
		b.logger.Warn(
			"desktop notification failed",
			slog.Any("error", err),
			slog.Int("toast_id", t.ID),
		)
	}
}

// Subscribe returns a channel that receives every new toast and a function
// that closes it. Toasts are dropped for subscribers that fall behind.
func (b *Bus) Subscribe() (<-chan Toast, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSub++
	id := b.nextSub
	ch := make(chan Toast, 16)
	b.subs[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.subs, id)
			close(ch)
		})
	}
}

// Active returns the toasts that have not expired at now, oldest first.
func (b *Bus) Active(now time.Time) []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Toast, 0, len(b.toasts))

	for _, t := range b.toasts {
		if !t.Expired(now) {
			out = append(out, t)
		}
	}

	return out
}

// Dismiss removes a toast before it expires.
func (b *Bus) Dismiss(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.toasts = slices.DeleteFunc(b.toasts, func(t Toast) bool {
		return t.ID == id
	})
}

// Prune drops expired toasts and returns how many were removed.
func (b *Bus) Prune(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.toasts)

	b.toasts = slices.DeleteFunc(b.toasts, func(t Toast) bool {
		return t.Expired(now)
	})

	return n - len(b.toasts)
}
