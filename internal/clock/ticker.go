package clock

import (
	"sync"
	"time"
)

// Ticker publishes one shared reference instant on a fixed cadence. All
// durations computed in a render pass must use the same instant, so
// consumers read Now instead of calling time.Now per row.
//
// The underlying timer only runs while at least one subscriber exists.
type Ticker struct {
	src      Clock
	subs     map[int]chan time.Time
	stop     chan struct{}
	now      time.Time
	interval time.Duration
	nextID   int
	mu       sync.Mutex
}

// NewTicker returns a ticker reading from src every interval.
func NewTicker(src Clock, interval time.Duration) *Ticker {
	if src == nil {
		src = Real{}
	}

	if interval <= 0 {
		interval = DefaultTick
	}

	return &Ticker{
		src:      src,
		interval: interval,
		now:      src.Now(),
		subs:     make(map[int]chan time.Time),
	}
}

// Now returns the last published reference instant.
func (t *Ticker) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.now
}

// Running reports whether the ticker currently has subscribers.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stop != nil
}

// Subscribe registers a consumer. Each receive yields the newest reference
// instant; a slow consumer skips intermediate ticks. The returned cancel
// function must be called once the consumer is gone.
func (t *Ticker) Subscribe() (<-chan time.Time, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++

	ch := make(chan time.Time, 1)
	t.subs[id] = ch

	if t.stop == nil {
		t.stop = make(chan struct{})
		go t.run(t.stop)
	}

	var once sync.Once

	cancel := func() {
		once.Do(func() {
			t.unsubscribe(id)
		})
	}

	return ch, cancel
}

// Refresh publishes a new reference instant immediately.
func (t *Ticker) Refresh() time.Time {
	return t.publish(t.src.Now())
}

func (t *Ticker) unsubscribe(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.subs[id]
	if !ok {
		return
	}

	delete(t.subs, id)
	close(ch)

	if len(t.subs) == 0 && t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Ticker) run(stop <-chan struct{}) {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			t.publish(t.src.Now())
		}
	}
}

func (t *Ticker) publish(now time.Time) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.now = now

	for _, ch := range t.subs {
		select {
		case ch <- now:
		default:
			// drop the unread instant so the newest one wins
			select {
			case <-ch:
			default:
			}

			ch <- now
		}
	}

	return now
}
