package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/drills/internal/clock"
)

var start = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestToastExpiry(t *testing.T) {
	c := clock.NewFixed(start)
	b := New(WithClock(c))

	b.Success("Drill created")
	c.Advance(2 * time.Second)
	b.Error("Something went wrong")

	assert.Len(t, b.Active(c.Now()), 2)

	c.Advance(3 * time.Second)

	active := b.Active(c.Now())
	require.Len(t, active, 1)
	assert.Equal(t, "Something went wrong", active[0].Message)
	assert.Equal(t, KindError, active[0].Kind)

	assert.Equal(t, 1, b.Prune(c.Now()))

	c.Advance(2 * time.Second)
	assert.Empty(t, b.Active(c.Now()))
}

func TestDismiss(t *testing.T) {
	b := New(WithClock(clock.NewFixed(start)), WithLifetime(time.Minute))

	first := b.Info("one")
	b.Info("two")

	b.Dismiss(first.ID)

	active := b.Active(start)
	require.Len(t, active, 1)
	assert.Equal(t, "two", active[0].Message)
}

func TestSubscribe(t *testing.T) {
	b := New(WithClock(clock.NewFixed(start)))

	ch, cancel := b.Subscribe()

	b.Success("saved")

	select {
	case got := <-ch:
		assert.Equal(t, "saved", got.Message)
		assert.Equal(t, DefaultLifetime, got.Lifetime)
	case <-time.After(time.Second):
		t.Fatal("toast was not delivered")
	}

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	b.Success("after cancel")
}
