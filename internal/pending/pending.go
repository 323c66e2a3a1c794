// Package pending tracks in-flight operations and two-step confirmations per
// entity.
package pending

import (
	"sync"
	"time"
)

// DefaultWindow is how long an armed confirmation stays valid.
const DefaultWindow = 3 * time.Second

// Set records which entities have an operation in flight.
type Set[K comparable] struct {
	keys map[K]struct{}
	mu   sync.Mutex
}

func NewSet[K comparable]() *Set[K] {
	return &Set[K]{keys: make(map[K]struct{})}
}

// Begin marks k as busy. It returns false if k was already busy.
func (s *Set[K]) Begin(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[k]; ok {
		return false
	}

	s.keys[k] = struct{}{}

	return true
}

func (s *Set[K]) End(k K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, k)
}

func (s *Set[K]) Has(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.keys[k]

	return ok
}

func (s *Set[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.keys)
}

// Confirm implements "press again to confirm". The first press arms a key;
// a second press within the window confirms it.
type Confirm[K comparable] struct {
	armed  map[K]time.Time
	window time.Duration
	mu     sync.Mutex
}

// NewConfirm returns a Confirm with the given window, or DefaultWindow when
// window is not positive.
func NewConfirm[K comparable](window time.Duration) *Confirm[K] {
	if window <= 0 {
		window = DefaultWindow
	}

	return &Confirm[K]{
		armed:  make(map[K]time.Time),
		window: window,
	}
}

func (c *Confirm[K]) Arm(k K, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.armed[k] = now
}

// Armed reports whether k is waiting for its second press at now.
func (c *Confirm[K]) Armed(k K, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.live(k, now)
}

// Confirmed reports whether k was armed within the window and clears it.
// An expired arming is cleared as well.
func (c *Confirm[K]) Confirmed(k K, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := c.live(k, now)
	delete(c.armed, k)

	return ok
}

// Press arms k or, if it is already armed, confirms it.
func (c *Confirm[K]) Press(k K, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live(k, now) {
		delete(c.armed, k)
		return true
	}

	c.armed[k] = now

	return false
}

func (c *Confirm[K]) Reset(k K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.armed, k)
}

func (c *Confirm[K]) live(k K, now time.Time) bool {
	at, ok := c.armed[k]
	if !ok {
		return false
	}

	if now.Sub(at) >= c.window {
		delete(c.armed, k)
		return false
	}

	return true
}
