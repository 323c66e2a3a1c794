// Package tui implements the interactive dashboard.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/drills/internal/clock"
	"github.com/ayoisaiah/drills/internal/export"
	"github.com/ayoisaiah/drills/internal/notify"
	"github.com/ayoisaiah/drills/internal/osutil"
	"github.com/ayoisaiah/drills/internal/pending"
	"github.com/ayoisaiah/drills/internal/refresh"
	"github.com/ayoisaiah/drills/internal/report"
	"github.com/ayoisaiah/drills/internal/store"
	"github.com/ayoisaiah/drills/internal/view"
)

// PrefsStore persists the view state between runs.
type PrefsStore interface {
	SavePrefs(p store.Prefs) error
}

// Options configures the dashboard.
type Options struct {
	Cache    *refresh.Cache
	Ticker   *clock.Ticker
	Store    PrefsStore
	Comparer *view.Comparer
	Logger   *slog.Logger
	// ExportDir receives files written from the export picker.
	ExportDir     string
	Prefs         store.Prefs
	ConfirmWindow time.Duration
}

type exportChoice struct {
	label  string
	format export.Format
	what   string
}

var exportChoices = []exportChoice{
	{"Sessions (CSV)", export.FormatCSV, "sessions"},
	{"Sessions (JSON)", export.FormatJSON, "sessions"},
	{"Summary (CSV)", export.FormatCSV, "summary"},
}

// App is the root Bubble Tea model.
type App struct {
	d         *deps
	ticker    *clock.Ticker
	prefStore PrefsStore
	exportDir string
	width     int
	height    int
	now       time.Time

	tickCh    <-chan time.Time
	toastCh   <-chan notify.Toast
	closers   []func()
	lastPrefs store.Prefs

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	drills  drillsModel
	reports reportsModel
	users   usersModel

	help   help.Model
	status statusMsg
}

// NewApp builds the dashboard and subscribes it to the ticker and the
// notification bus. Call Close once the program has exited.
func NewApp(ctx context.Context, opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ticker := opts.Ticker
	if ticker == nil {
		ticker = clock.NewTicker(clock.Real{}, clock.DefaultTick)
	}

	window := opts.ConfirmWindow
	if window <= 0 {
		window = pending.DefaultWindow
	}

	d := &deps{
		ctx:      ctx,
		cache:    opts.Cache,
		busy:     pending.NewSet[string](),
		confirm:  pending.NewConfirm[string](window),
		comparer: opts.Comparer,
		logger:   logger,
	}

	h := help.New()
	h.ShowAll = false

	a := App{
		d:          d,
		ticker:     ticker,
		prefStore:  opts.Store,
		exportDir:  opts.ExportDir,
		now:        ticker.Now(),
		activeView: parseViewState(opts.Prefs.Tab),
		drills:     newDrillsModel(d),
		reports:    newReportsModel(d),
		users:      newUsersModel(d),
		help:       h,
	}

	if opts.Prefs.Filter != "" {
		a.reports.filter = opts.Prefs.Filter
	}

	if opts.Prefs.Sessions.Field != "" {
		a.reports.sessionSort = opts.Prefs.Sessions
	}

	if opts.Prefs.Summaries.Field != "" {
		a.reports.summarySort = opts.Prefs.Summaries
	}

	if opts.Prefs.Users.Field != "" {
		a.users.sort = opts.Prefs.Users
	}

	tickCh, stopTicks := ticker.Subscribe()
	toastCh, stopToasts := opts.Cache.Notifier().Subscribe()

	a.tickCh = tickCh
	a.toastCh = toastCh
	a.closers = []func(){stopTicks, stopToasts}
	a.lastPrefs = a.prefs()
	a.setNow(a.now)

	return a
}

// Close releases the ticker and notification subscriptions.
func (a App) Close() {
	for _, c := range a.closers {
		c()
	}
}

// Run starts the dashboard and blocks until the user quits. The cache is
// polled every interval while it runs.
func Run(ctx context.Context, opts Options, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go opts.Cache.Poll(ctx, interval)

	app := NewApp(ctx, opts)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()

	return err
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		waitForTick(a.tickCh),
		waitForToast(a.toastCh),
		waitForRefresh(a.d.cache.Updates()),
		a.loadCurrentView(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.drills.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.users.setSize(a.width, contentHeight)

		return a, nil

	case tea.KeyMsg:
		model, cmd := a.updateKeys(msg)
		next, _ := model.(App)
		save := next.savePrefs()

		return next, tea.Batch(cmd, save)

	case tickMsg:
		a.setNow(time.Time(msg))
		a.d.cache.Notifier().Prune(a.now)

		return a, waitForTick(a.tickCh)

	case toastMsg:
		return a, waitForToast(a.toastCh)

	case refreshedMsg:
		a.setNow(a.ticker.Refresh())

		var cmd tea.Cmd
		a, cmd = a.reloadCurrentView()

		return a, tea.Batch(cmd, waitForRefresh(a.d.cache.Updates()))

	case statusMsg:
		a.status = msg
		return a, nil

	case mutatedMsg:
		a.d.busy.End(msg.key)
		a.d.confirm.Reset(msg.key)
		a.setNow(a.ticker.Refresh())

		if msg.view != a.activeView {
			return a, nil
		}

		return a.reloadCurrentView()

	case loadedMsg:
		return a.routeLoaded(msg)

	case exportDoneMsg:
		a.status = statusMsg{text: "Exported to " + msg.path}
		a.exportPicking = false

		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.exportPicking {
		return a.updateExportPicker(msg)
	}

	// If a child view is capturing input (e.g. form), delegate first.
	if a.isFormActive() {
		return a.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0

		return a, nil
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp

		return a, nil
	case key.Matches(msg, keys.Refresh):
		return a, func() tea.Msg {
			if err := a.d.cache.Refresh(a.d.ctx); err != nil {
				return statusMsg{text: err.Error(), isError: true}
			}

			return nil
		}
	case key.Matches(msg, keys.Tab1):
		return a.switchView(viewDrills)
	case key.Matches(msg, keys.Tab2):
		return a.switchView(viewReports)
	case key.Matches(msg, keys.Tab3):
		return a.switchView(viewUsers)
	case key.Matches(msg, keys.Tab):
		return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
	}

	return a.updateActiveView(msg)
}

// switchView closes the current view so its pending results are ignored,
// then loads the next one.
func (a App) switchView(next viewState) (tea.Model, tea.Cmd) {
	if next == a.activeView {
		return a, nil
	}

	switch a.activeView {
	case viewDrills:
		a.drills = a.drills.close()
	case viewReports:
		a.reports = a.reports.close()
	case viewUsers:
		a.users = a.users.close()
	}

	a.activeView = next

	return a.reloadCurrentView()
}

func (a App) routeLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.view != a.activeView {
		return a, nil
	}

	if msg.err != nil {
		a.status = statusMsg{text: msg.err.Error(), isError: true}
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.activeView {
	case viewDrills:
		a.drills, cmd = a.drills.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewUsers:
		a.users, cmd = a.users.update(msg)
	}

	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDrills:
		return a.drills.formActive
	case viewUsers:
		return a.users.formActive
	}

	return false
}

func (a App) loadCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDrills:
		return a.drills.load()
	case viewReports:
		return a.reports.load()
	case viewUsers:
		return a.users.load()
	}

	return nil
}

func (a App) reloadCurrentView() (App, tea.Cmd) {
	var cmd tea.Cmd

	switch a.activeView {
	case viewDrills:
		a.drills, cmd = a.drills.reload()
	case viewReports:
		a.reports, cmd = a.reports.reload()
	case viewUsers:
		a.users, cmd = a.users.reload()
	}

	return a, cmd
}

// setNow hands one reference instant to every view so all durations in a
// frame agree.
func (a *App) setNow(now time.Time) {
	a.now = now
	a.drills.now = now
	a.reports.now = now
	a.users.now = now
}

func (a App) prefs() store.Prefs {
	return store.Prefs{
		Tab:       a.activeView.String(),
		Filter:    a.reports.filter,
		Sessions:  a.reports.sessionSort,
		Users:     a.users.sort,
		Summaries: a.reports.summarySort,
	}
}

func (a *App) savePrefs() tea.Cmd {
	p := a.prefs()
	if a.prefStore == nil || p == a.lastPrefs {
		return nil
	}

	a.lastPrefs = p
	s := a.prefStore

	return func() tea.Msg {
		if err := s.SavePrefs(p); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}

		return nil
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string

	switch a.activeView {
	case viewDrills:
		content = a.drills.view()
	case viewReports:
		content = a.reports.view()
	case viewUsers:
		content = a.users.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)

	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string

	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("drills")

	if at, stale, ok := a.d.cache.FetchedAt(refresh.KeyDrills); ok {
		label := "updated " + at.Local().Format("15:04:05")
		if stale {
			label += " (stale)"
		}

		title += mutedStyle.Render("  " + label)
	}

	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	var lines []string

	for _, t := range a.d.cache.Notifier().Active(a.now) {
		style := highlightStyle

		switch t.Kind {
		case notify.KindSuccess:
			style = successStyle
		case notify.KindError:
			style = errorStyle
		}

		lines = append(lines, style.Render(" "+t.Message))
	}

	helpView := a.help.View(keys)

	status := ""
	if a.status.text != "" {
		style := mutedStyle
		if a.status.isError {
			style = errorStyle
		}

		status = style.Render(" " + a.status.text)
	}

	left := footerStyle.Render(helpView)

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(status)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export"), ""}

	for i, c := range exportChoices {
		style := normalItemStyle
		if i == a.exportCursor {
			style = selectedItemStyle
		}

		rows = append(rows, style.Render(cursorPrefix(i == a.exportCursor)+c.label))
	}

	rows = append(rows, "", mutedStyle.Render(
		fmt.Sprintf("  %s sessions  ·  enter: export  esc: cancel", a.reports.filter),
	))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportChoices)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportChoices[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}

	return a, nil
}

// doExport writes the sessions matching the reports filter, in the reports
// sort order.
func (a App) doExport(choice exportChoice) tea.Cmd {
	d := a.d
	filter := a.reports.filter
	sort := a.reports.sessionSort
	now := a.now
	dir := a.exportDir

	return func() tea.Msg {
		sessions, err := d.cache.Sessions(d.ctx, filter)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		sessions = view.SortSessions(sessions, sort, now, d.comparer)

		if dir != "" {
			if err := os.MkdirAll(dir, osutil.DirPermission); err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
		}

		name := fmt.Sprintf(
			"drills-%s-%s-%s%s",
			choice.what,
			filter,
			now.Format("2006-01-02-150405"),
			choice.format.Ext(),
		)
		path := filepath.Join(dir, name)
		opts := export.Options{Now: now}

		err = export.ToFile(path, func(w io.Writer) error {
			switch {
			case choice.what == "summary":
				return export.SummaryCSV(w, report.Summarize(sessions, now, d.logger))
			case choice.format == export.FormatJSON:
				return export.SessionsJSON(w, sessions, opts)
			default:
				return export.SessionsCSV(w, sessions, opts)
			}
		})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		d.logger.Info("exported", slog.String("path", path), slog.Int("sessions", len(sessions)))

		return exportDoneMsg{path: path}
	}
}
