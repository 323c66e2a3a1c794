package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	start := FromTime(epoch1700)
	stop := FromTime(epoch1700.Add(42 * time.Second))
	now := epoch1700.Add(time.Hour)

	d, ok := Duration(start, &stop, now)
	assert.True(t, ok)
	assert.Equal(t, 42*time.Second, d)

	d, ok = Duration(start, nil, now)
	assert.True(t, ok)
	assert.Equal(t, time.Hour, d)

	empty := ParseTimestamp("")
	d, ok = Duration(start, &empty, now)
	assert.True(t, ok)
	assert.Equal(t, time.Hour, d)
}

func TestDurationNotClamped(t *testing.T) {
	start := FromTime(epoch1700)

	d, ok := Duration(start, nil, epoch1700.Add(-5*time.Second))
	assert.True(t, ok)
	assert.Equal(t, -5*time.Second, d)
}

func TestDurationInvalid(t *testing.T) {
	bad := ParseTimestamp("garbage")
	good := FromTime(epoch1700)

	_, ok := Duration(bad, nil, epoch1700)
	assert.False(t, ok)

	_, ok = Duration(good, &bad, epoch1700)
	assert.False(t, ok)
}

func TestCostIsLinear(t *testing.T) {
	d := 90 * time.Second

	assert.InDelta(t, 15.0, Cost(d, 10), 1e-9)
	assert.InDelta(t, 2*Cost(d, 10), Cost(2*d, 10), 1e-9)
	assert.InDelta(t, 2*Cost(d, 10), Cost(d, 20), 1e-9)
	assert.Zero(t, Cost(0, 12.5))
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{999 * time.Millisecond, "0s"},
		{59999 * time.Millisecond, "59s"},
		{60000 * time.Millisecond, "1m 0s"},
		{90 * time.Second, "1m 30s"},
		{3599999 * time.Millisecond, "59m 59s"},
		{3600000 * time.Millisecond, "1h 0m 0s"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "26h 3m 4s"},
		{-90 * time.Second, "-1m 30s"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.in), tc.in.String())
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "15.00", FormatCost(15))
	assert.Equal(t, "0.33", FormatCost(1.0/3))
}

func TestActiveSessionScenario(t *testing.T) {
	start := FromTime(epoch1700)
	now := epoch1700.Add(90 * time.Second)

	d, ok := Duration(start, nil, now)

	assert.True(t, ok)
	assert.Equal(t, "1m 30s", FormatDuration(d))
	assert.InDelta(t, 15.0, Cost(d, 10), 1e-9)
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)

	start, end := PeriodRange(Period7Days, now)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, RoundToEnd(now), end)

	start, end = PeriodRange(PeriodYesterday, now)
	assert.Equal(t, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, RoundToEnd(start), end)

	start, _ = PeriodRange(PeriodAllTime, now)
	assert.True(t, start.IsZero())
}
