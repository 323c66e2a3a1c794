package timeutil

import (
	"fmt"
	"strconv"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const dateLayout = "02.01.2006 15:04"

// Duration returns the time between start and stop, or between start and now
// when stop is nil or empty. The result is not clamped, so clock skew can make
// it negative. ok is false when either bound could not be parsed.
func Duration(start Timestamp, stop *Timestamp, now time.Time) (d time.Duration, ok bool) {
	if !start.Valid() {
		return 0, false
	}

	end := now

	if stop != nil && !stop.Empty() {
		if !stop.Valid() {
			return 0, false
		}

		end = stop.Time()
	}

	return end.Sub(start.Time()), true
}

// Cost is the price of d at pricePerMinute. No rounding is applied.
func Cost(d time.Duration, pricePerMinute float64) float64 {
	return float64(d.Milliseconds()) / 60000 * pricePerMinute
}

// FormatDuration renders d as "45s", "5m 23s" or "2h 15m 45s", truncating
// at every unit.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + FormatDuration(-d)
	}

	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case total < 60:
		return fmt.Sprintf("%ds", seconds)
	case total < 3600:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
}

// FormatCost renders c with two decimal places.
func FormatCost(c float64) string {
	return strconv.FormatFloat(c, 'f', 2, 64)
}

// FormatDate renders ts as "DD.MM.YYYY HH:MM" in local time.
func FormatDate(ts Timestamp) string {
	if !ts.Valid() {
		return InvalidDate
	}

	return ts.Time().Local().Format(dateLayout)
}

// ParseSince parses an absolute or relative date such as "2 hours ago" or
// "2024-03-01" relative to now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime:     now,
		DefaultTimezone: now.Location(),
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, errInvalidSince.Fmt(s).Wrap(err)
	}

	return dt.Time, nil
}
