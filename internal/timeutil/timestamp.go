package timeutil

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/markusmobius/go-dateparser"
)

// Source records which wire representation a Timestamp was decoded from.
type Source int

const (
	SourceInvalid Source = iota
	SourceEpoch
	SourceISO
	SourceTime
)

// InvalidDate is displayed in place of a timestamp that could not be parsed.
const InvalidDate = "Invalid Date"

// Timestamp is an absolute instant decoded from the backend. The backend
// sends either ISO-8601 strings or epoch seconds (as numbers or numeric
// strings); both are normalised here and never re-emitted in epoch form.
// The zero value is invalid.
type Timestamp struct {
	t      time.Time
	raw    string
	source Source
	unset  bool
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

var lenientCfg = &dateparser.Configuration{
	DefaultTimezone: time.UTC,
}

// FromTime wraps an already normalised instant.
func FromTime(t time.Time) Timestamp {
	return Timestamp{t: t, raw: t.Format(time.RFC3339Nano), source: SourceTime}
}

// FromEpoch interprets secs as seconds since the Unix epoch.
func FromEpoch(secs float64) Timestamp {
	ts := Timestamp{raw: strconv.FormatFloat(secs, 'f', -1, 64)}

	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return ts
	}

	ts.t = time.UnixMilli(int64(secs * 1000))
	ts.source = SourceEpoch

	return ts
}

// ParseTimestamp normalises v, which may be a number of epoch seconds, a
// string holding such a number, or an ISO-8601 date-time string. It never
// fails: unparseable input yields an invalid Timestamp.
func ParseTimestamp(v any) Timestamp {
	switch x := v.(type) {
	case Timestamp:
		return x
	case time.Time:
		return FromTime(x)
	case float64:
		return FromEpoch(x)
	case float32:
		return FromEpoch(float64(x))
	case int:
		return FromEpoch(float64(x))
	case int64:
		return FromEpoch(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Timestamp{raw: x.String()}
		}

		return FromEpoch(f)
	case string:
		return parseString(x)
	default:
		return Timestamp{}
	}
}

func parseString(s string) Timestamp {
	if f, ok := canonicalNumber(s); ok {
		ts := FromEpoch(f)
		ts.raw = s

		return ts
	}

	ts := Timestamp{raw: s}

	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			ts.t = t
			ts.source = SourceISO

			return ts
		}
	}

	if !strings.ContainsFunc(s, unicode.IsDigit) {
		return ts
	}

	dt, err := dateparser.Parse(lenientCfg, s)
	if err != nil || dt.Time.IsZero() {
		return ts
	}

	ts.t = dt.Time
	ts.source = SourceISO

	return ts
}

// canonicalNumber reports whether s is exactly the shortest decimal
// rendering of a finite number, so "1700000000" qualifies while
// "01700000000", "1.50" and " 17" do not.
func canonicalNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	if f == 0 && math.Signbit(f) {
		return 0, false
	}

	return f, strconv.FormatFloat(f, 'f', -1, 64) == s
}

// Valid reports whether the timestamp was parsed successfully.
func (t Timestamp) Valid() bool {
	return t.source != SourceInvalid
}

// Time returns the normalised instant. It is the zero time when invalid.
func (t Timestamp) Time() time.Time {
	return t.t
}

// Raw returns the value as received.
func (t Timestamp) Raw() string {
	return t.raw
}

// Source returns the representation the value was decoded from.
func (t Timestamp) Source() Source {
	return t.source
}

// Empty reports whether the backend sent no instant at all: an empty string
// or the bare number 0. A stop time that is Empty means still running.
func (t Timestamp) Empty() bool {
	return t.unset || (t.source == SourceInvalid && t.raw == "")
}

func (t Timestamp) String() string {
	if !t.Valid() {
		return InvalidDate
	}

	return t.t.Format(time.RFC3339Nano)
}

// UnmarshalJSON accepts a JSON number or string and never returns a parse
// error for malformed dates.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{raw: "null"}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string

		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*t = parseString(s)

		return nil
	}

	ts := ParseTimestamp(json.Number(b))
	ts.unset = ts.Valid() && ts.t.Equal(time.Unix(0, 0))
	*t = ts

	return nil
}

// MarshalJSON emits RFC 3339, or the raw text for invalid values. An Empty
// value is written as "" so it decodes as Empty again.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.unset {
		return []byte(`""`), nil
	}

	if !t.Valid() {
		return json.Marshal(t.raw)
	}

	return json.Marshal(t.t.Format(time.RFC3339Nano))
}
