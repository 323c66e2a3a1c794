package pending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestSet(t *testing.T) {
	s := NewSet[int]()

	assert.True(t, s.Begin(1))
	assert.False(t, s.Begin(1))
	assert.True(t, s.Begin(2))
	assert.True(t, s.Has(1))
	assert.Equal(t, 2, s.Len())

	s.End(1)

	assert.False(t, s.Has(1))
	assert.True(t, s.Has(2))
}

func TestConfirmWithinWindow(t *testing.T) {
	c := NewConfirm[string](0)

	assert.False(t, c.Press("drill:1", start))
	assert.True(t, c.Armed("drill:1", start.Add(time.Second)))
	assert.False(t, c.Armed("drill:2", start.Add(time.Second)))
	assert.True(t, c.Press("drill:1", start.Add(2*time.Second)))
	assert.False(t, c.Armed("drill:1", start.Add(2*time.Second)))
}

func TestConfirmExpires(t *testing.T) {
	c := NewConfirm[int](3 * time.Second)

	c.Arm(7, start)

	assert.False(t, c.Armed(7, start.Add(3*time.Second)))
	assert.False(t, c.Confirmed(7, start.Add(3*time.Second)))

	assert.False(t, c.Press(7, start.Add(4*time.Second)))
	assert.True(t, c.Confirmed(7, start.Add(5*time.Second)))
	assert.False(t, c.Confirmed(7, start.Add(5*time.Second)))
}

func TestConfirmReset(t *testing.T) {
	c := NewConfirm[int](time.Minute)

	c.Arm(1, start)
	c.Reset(1)

	assert.False(t, c.Confirmed(1, start))
}
