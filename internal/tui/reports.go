package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/report"
	"github.com/ayoisaiah/drills/internal/timeutil"
	"github.com/ayoisaiah/drills/internal/view"
)

type reportPane int

const (
	paneSessions reportPane = iota
	paneSummary
)

type reportsModel struct {
	d      *deps
	width  int
	height int
	now    time.Time

	filter      view.Filter
	sessions    []models.UserDrill
	sessionSort view.Sort[view.SessionField]
	summarySort view.Sort[view.SummaryField]
	pane        reportPane
	column      int
	cursor      int
	seq         int
	loaded      bool
	err         error
}

func newReportsModel(d *deps) reportsModel {
	return reportsModel{
		d:           d,
		filter:      view.FilterAll,
		sessionSort: view.DefaultSessionSort,
		summarySort: view.DefaultSummarySort,
	}
}

func (m *reportsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m reportsModel) load() tea.Cmd {
	return m.d.load(viewReports, m.seq, fetch{sessions: true, filter: m.filter})
}

func (m reportsModel) reload() (reportsModel, tea.Cmd) {
	m.seq++
	return m, m.load()
}

func (m reportsModel) close() reportsModel {
	m.seq++
	return m
}

// rows returns the sessions in display order.
func (m reportsModel) rows() []models.UserDrill {
	return view.SortSessions(m.sessions, m.sessionSort, m.now, m.d.comparer)
}

func (m reportsModel) report() report.Report {
	r := report.Summarize(m.sessions, m.now, m.d.logger)
	r.Summaries = view.SortSummaries(r.Summaries, m.summarySort, m.d.comparer)

	return r
}

func (m reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.err = msg.err
		if msg.err == nil {
			m.loaded = true
			m.sessions = msg.sessions
		}

		m.cursor = clampCursor(m.cursor, len(m.sessions))

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m reportsModel) updateKeys(msg tea.KeyMsg) (reportsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Filter):
		i := slices.Index(view.Filters, m.filter)
		m.filter = view.Filters[(i+1)%len(view.Filters)]
		m.loaded = false
		m.cursor = 0

		return m.reload()
	case key.Matches(msg, keys.Column):
		if m.pane == paneSessions {
			m.pane = paneSummary
		} else {
			m.pane = paneSessions
		}

		m.column = 0
	case key.Matches(msg, keys.Left):
		if m.column > 0 {
			m.column--
		}
	case key.Matches(msg, keys.Right):
		if m.column < m.columnCount()-1 {
			m.column++
		}
	case key.Matches(msg, keys.Sort):
		m.toggleSort()
	case key.Matches(msg, keys.Stop):
		return m, m.stop()
	case key.Matches(msg, keys.Delete):
		return m, m.delete()
	}

	return m, nil
}

func (m reportsModel) columnCount() int {
	if m.pane == paneSummary {
		return len(view.SummaryFields())
	}

	return len(view.SessionFields())
}

func (m *reportsModel) toggleSort() {
	if m.pane == paneSummary {
		fields := view.SummaryFields()
		m.summarySort = m.summarySort.Toggle(fields[clampCursor(m.column, len(fields))])

		return
	}

	fields := view.SessionFields()
	m.sessionSort = m.sessionSort.Toggle(fields[clampCursor(m.column, len(fields))])
}

func (m reportsModel) current() (models.UserDrill, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return models.UserDrill{}, false
	}

	return rows[m.cursor], true
}

func (m reportsModel) stop() tea.Cmd {
	ud, ok := m.current()
	if !ok {
		return nil
	}

	if !ud.Active() {
		return statusCmd("Session already stopped", false)
	}

	k := sessionKey("stop", &ud)
	if !m.d.confirmPress(k, m.now) {
		return statusCmd(
			fmt.Sprintf("Press x again to stop %s on %s", ud.UserName(), ud.DrillTitle()),
			false,
		)
	}

	req := models.StartStop{UserIDs: []int{ud.UserID}, DrillID: ud.DrillID}

	return m.d.mutate(viewReports, k, func(ctx context.Context) error {
		return m.d.cache.StopDrill(ctx, req)
	})
}

func (m reportsModel) delete() tea.Cmd {
	ud, ok := m.current()
	if !ok {
		return nil
	}

	k := sessionKey("delete", &ud)
	if !m.d.confirmPress(k, m.now) {
		return statusCmd(
			fmt.Sprintf("Press d again to delete %s on %s", ud.UserName(), ud.DrillTitle()),
			false,
		)
	}

	return m.d.mutate(viewReports, k, func(ctx context.Context) error {
		return m.d.cache.DeleteSession(ctx, ud.UserID, ud.DrillID)
	})
}

func (m reportsModel) view() string {
	w := m.width - 4

	tabs := make([]string, len(view.Filters))
	for i, f := range view.Filters {
		if f == m.filter {
			tabs[i] = activeTabStyle.Render(string(f))
		} else {
			tabs[i] = inactiveTabStyle.Render(string(f))
		}
	}

	filterRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	if m.err != nil && !m.loaded {
		return lipgloss.JoinVertical(lipgloss.Left,
			filterRow,
			panelStyle.Width(w).Render(errorStyle.Render(m.err.Error())),
		)
	}

	if !m.loaded {
		return lipgloss.JoinVertical(lipgloss.Left,
			filterRow,
			panelStyle.Width(w).Render(mutedStyle.Render("Loading sessions...")),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		filterRow,
		m.renderSummary(w),
		m.renderSessions(w),
	)
}

func (m reportsModel) renderSummary(w int) string {
	r := m.report()

	cols := []column{
		{title: "Drill", width: 24},
		{title: "Sessions", width: 9},
		{title: "Duration", width: 14},
		{title: "Cost", width: 12},
	}

	for i, f := range view.SummaryFields() {
		cols[i].sorted = m.summarySort.Field == f
		cols[i].dir = m.summarySort.Dir
		cols[i].selected = m.pane == paneSummary && m.column == i
	}

	rows := make([][]string, 0, len(r.Summaries)+1)

	for i := range r.Summaries {
		s := &r.Summaries[i]
		rows = append(rows, []string{
			s.Title,
			strconv.Itoa(s.Sessions),
			timeutil.FormatDuration(s.Duration),
			timeutil.FormatCost(s.Cost),
		})
	}

	rows = append(rows, []string{
		"Total",
		strconv.Itoa(r.Totals.Sessions),
		timeutil.FormatDuration(r.Totals.Duration),
		timeutil.FormatCost(r.Totals.Cost),
	})

	table := renderTable(cols, rows, -1, func(i int) lipgloss.Style {
		if i == len(rows)-1 {
			return titleStyle
		}

		return normalItemStyle
	})

	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Summary"), table)

	style := panelStyle
	if m.pane == paneSummary {
		style = activePanelStyle
	}

	return style.Width(w).Render(content)
}

func (m reportsModel) renderSessions(w int) string {
	sessions := m.rows()

	cols := []column{
		{title: "Started", width: 16},
		{title: "Stopped", width: 16},
		{title: "User", width: 20},
		{title: "Drill", width: 18},
		{title: "Duration", width: 12},
		{title: "Price", width: 8},
		{title: "Cost", width: 10},
	}

	for i, f := range view.SessionFields() {
		cols[i].sorted = m.sessionSort.Field == f
		cols[i].dir = m.sessionSort.Dir
		cols[i].selected = m.pane == paneSessions && m.column == i
	}

	rows := make([][]string, len(sessions))

	for i := range sessions {
		ud := &sessions[i]
		met := ud.Metrics(m.now)

		stopped := "active"
		if !ud.Active() {
			stopped = timeutil.FormatDate(*ud.StoppedAt)
		}

		duration, cost := timeutil.InvalidDate, "-"
		if met.Valid {
			duration = timeutil.FormatDuration(met.Duration)
			cost = timeutil.FormatCost(met.Cost)
		}

		rows[i] = []string{
			timeutil.FormatDate(ud.StartedAt),
			stopped,
			ud.UserName(),
			ud.DrillTitle(),
			duration,
			timeutil.FormatCost(ud.PricePerMinute()),
			cost,
		}
	}

	table := renderTable(cols, rows, m.cursor, func(i int) lipgloss.Style {
		ud := &sessions[i]

		switch {
		case m.d.armed(sessionKey("stop", ud), m.now),
			m.d.armed(sessionKey("delete", ud), m.now):
			return warningStyle
		case m.d.busy.Has(sessionKey("stop", ud)),
			m.d.busy.Has(sessionKey("delete", ud)):
			return mutedStyle
		case i == m.cursor:
			return selectedItemStyle
		case ud.Active():
			return successStyle
		default:
			return normalItemStyle
		}
	})

	if len(sessions) == 0 {
		table = mutedStyle.Render("  No sessions.")
	}

	totals := report.SessionTotals(sessions, m.now)

	footer := mutedStyle.Render(strings.Join([]string{
		fmt.Sprintf("  %d sessions", totals.Sessions),
		timeutil.FormatDuration(totals.Duration),
		timeutil.FormatCost(totals.Cost),
	}, "  ·  "))

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Sessions"),
		table,
		"",
		footer,
	)

	style := panelStyle
	if m.pane == paneSessions {
		style = activePanelStyle
	}

	return style.Width(w).Render(content)
}
