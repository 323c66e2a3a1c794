package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/report"
	"github.com/ayoisaiah/drills/internal/timeutil"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	m.Run()
}

func TestSessionRows(t *testing.T) {
	drill := &models.Drill{ID: 1, Title: "Sprint", PricePerMinute: 10}
	stopped := timeutil.FromTime(base.Add(90 * time.Second))

	sessions := []models.UserDrill{
		{ID: 1, DrillID: 1, UserID: 3, Drill: drill, StartedAt: timeutil.FromTime(base), StoppedAt: &stopped},
		{ID: 2, DrillID: 1, UserID: 4, Drill: drill, StartedAt: timeutil.FromTime(base)},
	}

	rows := SessionRows(sessions, base.Add(time.Minute))

	require.Len(t, rows, 4)
	assert.Equal(t, "1m 30s", rows[1][6])
	assert.Equal(t, "15.00", rows[1][8])
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "1m 0s", rows[2][6])
	assert.Equal(t, "active", rows[2][5])
	assert.Equal(t, "2m 30s", rows[3][6])
	assert.Equal(t, "25.00", rows[3][8])
}

func TestDrillRowsCountActiveSessions(t *testing.T) {
	drills := []models.Drill{{ID: 1, Title: "Sprint", PricePerMinute: 2}, {ID: 2}}
	sessions := []models.UserDrill{
		{ID: 1, DrillID: 1, Drill: &drills[0], StartedAt: timeutil.FromTime(base)},
		{ID: 2, DrillID: 1, Drill: &drills[0], StartedAt: timeutil.FromTime(base)},
	}

	rows := DrillRows(drills, sessions, base.Add(30*time.Second))

	require.Len(t, rows, 3)
	assert.Equal(t, "2", rows[1][3])
	assert.Equal(t, "1m 0s", rows[1][4])
	assert.Equal(t, "2.00", rows[1][5])
	assert.Equal(t, "Drill #2", rows[2][1])
}

func TestSummaryRowsAndPrint(t *testing.T) {
	r := report.Report{
		Summaries: []report.Summary{{Title: "Sprint", Sessions: 2, Duration: time.Hour, PricePerMinute: 1, Cost: 60}},
		Totals:    report.Totals{Sessions: 2, Duration: time.Hour, Cost: 60},
	}

	rows := SummaryRows(r.Summaries, r.Totals)
	assert.Equal(t, []string{"Total", "2", "1h 0m 0s", "", "60.00"}, rows[2])

	var buf bytes.Buffer
	require.NoError(t, PrintTable(rows, &buf))
	assert.Contains(t, buf.String(), "Sprint")
}

func TestUserRows(t *testing.T) {
	email := "o@example.com"
	rows := UserRows([]models.User{{ID: 9, FirstName: "Olena", LastName: "K", Email: &email}})

	assert.Equal(t, []string{"1", "9", "Olena", "K", "o@example.com"}, rows[1][:5])
}
