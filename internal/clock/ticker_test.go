package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

func TestTickerSharesOneInstant(t *testing.T) {
	src := NewFixed(t0)
	tk := NewTicker(src, time.Hour)

	assert.Equal(t, t0, tk.Now())

	src.Advance(90 * time.Second)

	// the reference only moves when published
	assert.Equal(t, t0, tk.Now())

	got := tk.Refresh()
	assert.Equal(t, t0.Add(90*time.Second), got)
	assert.Equal(t, got, tk.Now())
}

func TestTickerLifecycle(t *testing.T) {
	tk := NewTicker(NewFixed(t0), time.Hour)
	assert.False(t, tk.Running())

	_, cancelA := tk.Subscribe()
	_, cancelB := tk.Subscribe()
	assert.True(t, tk.Running())

	cancelA()
	assert.True(t, tk.Running())

	cancelB()
	cancelB()
	assert.False(t, tk.Running())
}

func TestTickerLatestValueWins(t *testing.T) {
	src := NewFixed(t0)
	tk := NewTicker(src, time.Hour)

	ch, cancel := tk.Subscribe()
	defer cancel()

	src.Advance(time.Second)
	tk.Refresh()
	src.Advance(time.Second)
	tk.Refresh()

	select {
	case got := <-ch:
		assert.Equal(t, t0.Add(2*time.Second), got)
	default:
		t.Fatal("expected a published instant")
	}
}

func TestTickerTicks(t *testing.T) {
	src := NewFixed(t0)
	tk := NewTicker(src, 5*time.Millisecond)

	ch, cancel := tk.Subscribe()
	defer cancel()

	src.Advance(time.Minute)

	select {
	case got := <-ch:
		require.Equal(t, t0.Add(time.Minute), got)
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not publish")
	}
}

func TestCancelClosesChannel(t *testing.T) {
	tk := NewTicker(NewFixed(t0), time.Hour)

	ch, cancel := tk.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)
}
