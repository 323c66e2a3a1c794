package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/timeutil"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func session(
	id, drillID int,
	drill *models.Drill,
	start time.Time,
	stop *time.Time,
) models.UserDrill {
	ud := models.UserDrill{
		ID:        id,
		UserID:    1,
		DrillID:   drillID,
		Drill:     drill,
		StartedAt: timeutil.FromTime(start),
	}

	if stop != nil {
		ts := timeutil.FromTime(*stop)
		ud.StoppedAt = &ts
	}

	return ud
}

func at(d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func TestSummarize(t *testing.T) {
	sprint := &models.Drill{ID: 1, Title: "Sprint", PricePerMinute: 10}
	plank := &models.Drill{ID: 2, PricePerMinute: 6}

	sessions := []models.UserDrill{
		session(1, 1, sprint, base, at(90*time.Second)),
		session(2, 2, plank, base, at(10*time.Minute)),
		session(3, 1, &models.Drill{ID: 1, Title: "Renamed", PricePerMinute: 99}, base, at(30*time.Second)),
		session(4, 3, nil, base, at(time.Minute)),
		session(5, 2, plank, base, nil),
	}

	now := base.Add(time.Minute)

	got := Summarize(sessions, now, nil)

	want := Report{
		Summaries: []Summary{
			{
				DrillID:        1,
				Title:          "Sprint",
				PricePerMinute: 10,
				Sessions:       2,
				Duration:       2 * time.Minute,
				Cost:           20,
			},
			{
				DrillID:        2,
				Title:          "Drill #2",
				PricePerMinute: 6,
				Sessions:       2,
				Duration:       11 * time.Minute,
				Cost:           66,
			},
		},
		Totals: Totals{
			Sessions: 4,
			Duration: 13 * time.Minute,
			Cost:     86,
		},
		Skipped: 1,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, base, nil)

	assert.Empty(t, got.Summaries)
	assert.Equal(t, Totals{}, got.Totals)
}

func TestSummarizeInvalidTimestamp(t *testing.T) {
	drill := &models.Drill{ID: 1, Title: "Sprint", PricePerMinute: 10}

	bad := models.UserDrill{
		ID:        7,
		DrillID:   1,
		Drill:     drill,
		StartedAt: timeutil.ParseTimestamp("not a date"),
	}

	got := Summarize([]models.UserDrill{bad}, base, nil)

	assert.Len(t, got.Summaries, 1)
	assert.Equal(t, 1, got.Totals.Sessions)
	assert.Zero(t, got.Totals.Duration)
	assert.Zero(t, got.Totals.Cost)
}

func TestSummarizeTotalsMatchSessionTotals(t *testing.T) {
	drill := &models.Drill{ID: 1, Title: "Sprint", PricePerMinute: 3.5}

	sessions := []models.UserDrill{
		session(1, 1, drill, base, at(45*time.Second)),
		session(2, 1, drill, base, nil),
		session(3, 9, nil, base, nil),
	}

	now := base.Add(5 * time.Minute)

	r := Summarize(sessions, now, nil)
	st := SessionTotals(sessions, now)

	assert.Equal(t, st, r.Totals)
}
