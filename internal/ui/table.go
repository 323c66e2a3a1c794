package ui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/report"
	"github.com/ayoisaiah/drills/internal/timeutil"
)

// PrintTable writes data as a boxed table whose first row is the header.
func PrintTable(data [][]string, writer io.Writer) error {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(writer, str)

	return err
}

func money(c float64) string {
	return timeutil.FormatCost(c)
}

// UserRows returns the users table.
func UserRows(users []models.User) [][]string {
	data := [][]string{{"#", "ID", "First name", "Last name", "Email", "Created"}}

	for i := range users {
		u := &users[i]

		data = append(data, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(u.ID),
			u.FirstName,
			u.LastName,
			u.EmailOrEmpty(),
			timeutil.FormatDate(u.CreatedAt),
		})
	}

	return data
}

// DrillRows returns one row per drill with its active session count, live
// duration and cost at now.
func DrillRows(drills []models.Drill, sessions []models.UserDrill, now time.Time) [][]string {
	data := [][]string{{"ID", "Title", "Price/min", "Active", "Running time", "Running cost"}}

	byDrill := make(map[int][]models.UserDrill)

	for i := range sessions {
		if sessions[i].Active() {
			byDrill[sessions[i].DrillID] = append(byDrill[sessions[i].DrillID], sessions[i])
		}
	}

	for i := range drills {
		d := &drills[i]
		t := report.SessionTotals(byDrill[d.ID], now)

		active := strconv.Itoa(len(byDrill[d.ID]))
		if len(byDrill[d.ID]) > 0 {
			active = Green(active)
		}

		data = append(data, []string{
			strconv.Itoa(d.ID),
			d.DisplayTitle(),
			money(d.PricePerMinute),
			active,
			timeutil.FormatDuration(t.Duration),
			money(t.Cost),
		})
	}

	return data
}

// SessionRows returns the sessions table followed by a totals row.
func SessionRows(sessions []models.UserDrill, now time.Time) [][]string {
	data := [][]string{{
		"ID", "User", "Drill", "Started", "Stopped", "State", "Duration", "Price/min", "Cost",
	}}

	for i := range sessions {
		s := &sessions[i]

		stopped := ""
		if !s.Active() {
			stopped = timeutil.FormatDate(*s.StoppedAt)
		}

		duration, cost := timeutil.InvalidDate, ""
		if m := s.Metrics(now); m.Valid {
			duration = timeutil.FormatDuration(m.Duration)
			cost = money(m.Cost)
		}

		data = append(data, []string{
			strconv.Itoa(s.ID),
			s.UserName(),
			s.DrillTitle(),
			timeutil.FormatDate(s.StartedAt),
			stopped,
			State(s.Active()),
			duration,
			money(s.PricePerMinute()),
			cost,
		})
	}

	t := report.SessionTotals(sessions, now)

	data = append(data, []string{
		"", Highlight("Total"), "", "", "", "",
		Highlight(timeutil.FormatDuration(t.Duration)),
		"",
		Highlight(money(t.Cost)),
	})

	return data
}

// SummaryRows returns the per-drill summary followed by the grand total.
func SummaryRows(summaries []report.Summary, totals report.Totals) [][]string {
	data := [][]string{{"Drill", "Sessions", "Duration", "Price/min", "Cost"}}

	for _, s := range summaries {
		data = append(data, []string{
			s.Title,
			strconv.Itoa(s.Sessions),
			timeutil.FormatDuration(s.Duration),
			money(s.PricePerMinute),
			money(s.Cost),
		})
	}

	data = append(data, []string{
		Highlight("Total"),
		Highlight(strconv.Itoa(totals.Sessions)),
		Highlight(timeutil.FormatDuration(totals.Duration)),
		"",
		Highlight(money(totals.Cost)),
	})

	return data
}
