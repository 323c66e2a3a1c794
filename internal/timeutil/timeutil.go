// Package timeutil normalises backend timestamps and derives elapsed time and
// cost from them.
package timeutil

import (
	"slices"
	"time"
)

// Period is a named reporting window ending today.
type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period365Days   Period = "365days"
)

// Range maps a period to the day offset of its first day.
var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period365Days:   -364,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
	Period365Days,
}

// Valid reports whether p is one of PeriodCollection.
func (p Period) Valid() bool {
	return slices.Contains(PeriodCollection, p)
}

// Contains reports whether t falls inside [start, end]. A zero bound is open.
func Contains(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}

	if !end.IsZero() && t.After(end) {
		return false
	}

	return true
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		int(time.Second-time.Nanosecond),
		t.Location(),
	)
}

// PeriodRange returns the bounds of period relative to now. The all-time
// period has a zero start.
func PeriodRange(period Period, now time.Time) (start, end time.Time) {
	end = RoundToEnd(now)

	switch period {
	case PeriodAllTime:
		return time.Time{}, end
	case PeriodYesterday:
		start = RoundToStart(now.AddDate(0, 0, Range[period]))
		return start, RoundToEnd(start)
	default:
		return RoundToStart(now.AddDate(0, 0, Range[period])), end
	}
}
