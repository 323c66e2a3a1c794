package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/report"
	"github.com/ayoisaiah/drills/internal/timeutil"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newSession(id int, start time.Duration, stop *time.Duration) models.UserDrill {
	ud := models.UserDrill{
		ID:        id,
		DrillID:   1,
		Drill:     &models.Drill{ID: 1, Title: "Sprint", PricePerMinute: 1},
		StartedAt: timeutil.FromTime(base.Add(start)),
	}

	if stop != nil {
		ts := timeutil.FromTime(base.Add(*stop))
		ud.StoppedAt = &ts
	}

	return ud
}

func dur(d time.Duration) *time.Duration {
	return &d
}

func ids(sessions []models.UserDrill) []int {
	out := make([]int, len(sessions))
	for i := range sessions {
		out[i] = sessions[i].ID
	}

	return out
}

func TestToggle(t *testing.T) {
	s := DefaultSessionSort

	s = s.Toggle(SessionStartedAt)
	assert.Equal(t, Asc, s.Dir)

	s = s.Toggle(SessionStartedAt)
	assert.Equal(t, Desc, s.Dir)

	s = s.Toggle(SessionStartedAt).Toggle(SessionCost)
	assert.Equal(t, Sort[SessionField]{Field: SessionCost, Dir: Desc}, s)
}

func TestSortStoppedAtPlacesActiveLast(t *testing.T) {
	sessions := []models.UserDrill{
		newSession(1, 0, nil),
		newSession(2, 0, dur(2*time.Minute)),
		newSession(3, 0, nil),
		newSession(4, 0, dur(time.Minute)),
	}

	asc := SortSessions(sessions, Sort[SessionField]{Field: SessionStoppedAt, Dir: Asc}, base, nil)
	assert.Equal(t, []int{4, 2, 1, 3}, ids(asc))

	desc := SortSessions(sessions, Sort[SessionField]{Field: SessionStoppedAt, Dir: Desc}, base, nil)
	assert.Equal(t, []int{1, 3, 2, 4}, ids(desc))

	assert.Equal(t, []int{1, 2, 3, 4}, ids(sessions), "input must not be reordered")
}

func TestSortDurationUsesNow(t *testing.T) {
	sessions := []models.UserDrill{
		newSession(1, 0, dur(5*time.Minute)),
		newSession(2, 0, nil),
	}

	early := SortSessions(sessions, Sort[SessionField]{Field: SessionDuration, Dir: Desc}, base.Add(time.Minute), nil)
	assert.Equal(t, []int{1, 2}, ids(early))

	late := SortSessions(sessions, Sort[SessionField]{Field: SessionDuration, Dir: Desc}, base.Add(time.Hour), nil)
	assert.Equal(t, []int{2, 1}, ids(late))
}

func TestSortIsStable(t *testing.T) {
	sessions := []models.UserDrill{
		newSession(1, 0, nil),
		newSession(2, 0, nil),
		newSession(3, 0, nil),
	}

	for _, dir := range []Direction{Asc, Desc} {
		got := SortSessions(sessions, Sort[SessionField]{Field: SessionStartedAt, Dir: dir}, base, nil)
		assert.Equal(t, []int{1, 2, 3}, ids(got))
	}
}

func TestSortKeepsSecondaryOrderAmongTies(t *testing.T) {
	rows := []struct {
		user  string
		drill string
		stop  *time.Duration
	}{
		{"Anna", "Plank", dur(2 * time.Minute)},
		{"Bohdan", "Sprint", dur(time.Minute)},
		{"Dmytro", "Plank", dur(2 * time.Minute)},
		{"Ivan", "Rope", nil},
		{"Olena", "Sprint", dur(time.Minute)},
	}

	sessions := make([]models.UserDrill, len(rows))
	for i, r := range rows {
		ud := newSession(i+1, 0, r.stop)
		ud.User = &models.User{ID: i + 1, FirstName: r.user}
		ud.Drill = &models.Drill{ID: i + 1, Title: r.drill, PricePerMinute: 1}
		sessions[i] = ud
	}

	byUser := SortSessions(sessions, Sort[SessionField]{Field: SessionUser, Dir: Asc}, base, nil)
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(byUser))

	for _, tc := range []struct {
		sort Sort[SessionField]
		want []int
	}{
		{Sort[SessionField]{Field: SessionDrill, Dir: Asc}, []int{1, 3, 4, 2, 5}},
		{Sort[SessionField]{Field: SessionDrill, Dir: Desc}, []int{2, 5, 4, 1, 3}},
		{Sort[SessionField]{Field: SessionStoppedAt, Dir: Asc}, []int{2, 5, 1, 3, 4}},
		{Sort[SessionField]{Field: SessionStoppedAt, Dir: Desc}, []int{4, 1, 3, 2, 5}},
	} {
		got := SortSessions(byUser, tc.sort, base, nil)
		assert.Equal(t, tc.want, ids(got), tc.sort)
	}
}

func TestFilter(t *testing.T) {
	sessions := []models.UserDrill{
		newSession(1, 0, nil),
		newSession(2, 0, dur(time.Minute)),
	}

	for _, tc := range []struct {
		in   string
		want []int
	}{
		{"", []int{1, 2}},
		{"all", []int{1, 2}},
		{"active", []int{1}},
		{"Completed", []int{2}},
	} {
		f, err := ParseFilter(tc.in)
		require.NoError(t, err)

		assert.Equal(t, tc.want, ids(FilterSessions(sessions, f)), tc.in)
	}

	_, err := ParseFilter("running")
	assert.ErrorIs(t, err, errInvalidFilter)
}

func TestParseFields(t *testing.T) {
	f, err := ParseSessionField("pricePerMinute")
	require.NoError(t, err)
	assert.Equal(t, SessionPricePerMinute, f)

	_, err = ParseUserField("age")
	assert.ErrorIs(t, err, errInvalidField)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, errInvalidOrder)
}

func TestSortUsersLocaleAware(t *testing.T) {
	c, err := NewComparer("uk", false)
	require.NoError(t, err)

	users := []models.User{
		{ID: 1, LastName: "Ярош"},
		{ID: 2, LastName: "Бондар"},
		{ID: 3, LastName: "Іваненко"},
		{ID: 4, LastName: "Гнатюк"},
	}

	got := SortUsers(users, Sort[UserField]{Field: UserLastName, Dir: Asc}, c)

	var names []string
	for _, u := range got {
		names = append(names, u.LastName)
	}

	assert.Equal(t, []string{"Бондар", "Гнатюк", "Іваненко", "Ярош"}, names)
}

func TestNaturalCompare(t *testing.T) {
	c, err := NewComparer("en", true)
	require.NoError(t, err)

	summaries := []report.Summary{
		{Title: "Drill 10"},
		{Title: "Drill 2"},
		{Title: "Drill 1"},
	}

	got := SortSummaries(summaries, DefaultSummarySort, c)

	assert.Equal(t, "Drill 1", got[0].Title)
	assert.Equal(t, "Drill 2", got[1].Title)
	assert.Equal(t, "Drill 10", got[2].Title)
}

func TestNewComparerRejectsBadLocale(t *testing.T) {
	_, err := NewComparer("not a locale!", false)
	assert.ErrorIs(t, err, errUnknownLocale)
}
