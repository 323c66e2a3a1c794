package export

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/report"
	"github.com/ayoisaiah/drills/internal/testutil"
	"github.com/ayoisaiah/drills/internal/timeutil"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func sampleSessions() []models.UserDrill {
	olena := &models.User{ID: 1, FirstName: "Olena", LastName: "Kovalenko"}
	sprint := &models.Drill{ID: 1, Title: "Sprint", PricePerMinute: 10}
	plank := &models.Drill{ID: 2, Title: "Plank", PricePerMinute: 4.5}

	stopped := timeutil.FromTime(base.Add(90 * time.Second))

	return []models.UserDrill{
		{
			ID:        1,
			UserID:    1,
			DrillID:   1,
			User:      olena,
			Drill:     sprint,
			StartedAt: timeutil.FromTime(base),
			StoppedAt: &stopped,
		},
		{
			ID:        2,
			UserID:    4,
			DrillID:   2,
			Drill:     plank,
			StartedAt: timeutil.FromTime(base),
		},
		{
			ID:        3,
			UserID:    1,
			DrillID:   1,
			User:      olena,
			Drill:     sprint,
			StartedAt: timeutil.ParseTimestamp("garbage"),
		},
	}
}

func opts() Options {
	return Options{Now: base.Add(15 * time.Minute), Location: time.UTC}
}

func TestSessionsCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, SessionsCSV(&buf, sampleSessions(), opts()))

	testutil.CompareGoldenFile(t, testutil.Golden{Name: "sessions_csv", Data: buf.Bytes()})
}

func TestSummaryCSV(t *testing.T) {
	var buf bytes.Buffer

	r := report.Summarize(sampleSessions()[:2], opts().Now, nil)

	require.NoError(t, SummaryCSV(&buf, r))

	testutil.CompareGoldenFile(t, testutil.Golden{Name: "summary_csv", Data: buf.Bytes()})
}

func TestSessionsJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, SessionsJSON(&buf, sampleSessions(), opts()))

	var got jsonExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, 3, got.Count)
	assert.Equal(t, int64(990), got.TotalDuration)
	assert.InDelta(t, 82.5, got.TotalCost, 1e-9)
	assert.Equal(t, "2024-03-01T10:15:00Z", got.ExportedAt)

	require.Len(t, got.Entries, 3)

	first := got.Entries[0]
	assert.Equal(t, "Olena Kovalenko", first.User)
	assert.Equal(t, "2024-03-01T10:01:30Z", first.StoppedAt)
	assert.Equal(t, "1m 30s", first.Duration)
	require.NotNil(t, first.Cost)
	assert.InDelta(t, 15.0, *first.Cost, 1e-9)

	assert.True(t, got.Entries[1].Active)
	assert.Equal(t, "User #4", got.Entries[1].User)

	invalid := got.Entries[2]
	assert.Equal(t, timeutil.InvalidDate, invalid.StartedAt)
	assert.Nil(t, invalid.Cost)
	assert.Nil(t, invalid.DurationSec)
}

func TestSummaryJSON(t *testing.T) {
	var buf bytes.Buffer

	r := report.Summarize(sampleSessions(), opts().Now, nil)

	require.NoError(t, SummaryJSON(&buf, r))

	var got jsonSummaryExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Drills, 2)
	assert.Equal(t, "Sprint", got.Drills[0].Drill)
	assert.Equal(t, 2, got.Drills[0].Sessions)
	assert.Equal(t, int64(90), got.Drills[0].DurationSec)
	assert.Equal(t, "Plank", got.Drills[1].Drill)
	assert.Equal(t, int64(900), got.Drills[1].DurationSec)
	assert.Equal(t, 3, got.Sessions)
	assert.InDelta(t, 82.5, got.TotalCost, 1e-9)
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions"+FormatCSV.Ext())

	err := ToFile(path, func(w io.Writer) error {
		return SessionsCSV(w, sampleSessions()[:1], opts())
	})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Olena Kovalenko,Sprint")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, errUnknownFormat)
}
