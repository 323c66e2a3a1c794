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
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/timeutil"
	"github.com/ayoisaiah/drills/internal/view"
)

type drillsModel struct {
	d      *deps
	width  int
	height int
	now    time.Time

	drills []models.Drill
	users  []models.User
	active []models.UserDrill
	cursor int
	seq    int
	loaded bool
	err    error

	// selected holds the user ids sessions are started for.
	selected *[]int

	form       *huh.Form
	formActive bool
	formType   string
	editingID  int
	formTitle  *string
	formPrice  *string
	formUsers  *[]int
}

func newDrillsModel(d *deps) drillsModel {
	return drillsModel{
		d:         d,
		selected:  new([]int),
		formTitle: new(string),
		formPrice: new(string),
		formUsers: new([]int),
	}
}

func (m *drillsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m drillsModel) load() tea.Cmd {
	return m.d.load(viewDrills, m.seq, fetch{
		users:    true,
		drills:   true,
		sessions: true,
		filter:   view.FilterActive,
	})
}

func (m drillsModel) reload() (drillsModel, tea.Cmd) {
	m.seq++
	return m, m.load()
}

// close drops any result still in flight.
func (m drillsModel) close() drillsModel {
	m.seq++
	m.formActive = false
	m.form = nil

	return m
}

func (m drillsModel) update(msg tea.Msg) (drillsModel, tea.Cmd) {
	_, isLoad := msg.(loadedMsg)

	if m.formActive && m.form != nil && !isLoad {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.err = msg.err
		if msg.err == nil {
			m.loaded = true
			m.drills = msg.drills
			m.users = msg.users
			m.active = msg.sessions
			m.pruneSelection()
		}

		m.cursor = clampCursor(m.cursor, len(m.drills))

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m drillsModel) updateKeys(msg tea.KeyMsg) (drillsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.drills)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Select):
		return m.showUserPicker()
	case key.Matches(msg, keys.New):
		return m.showDrillForm(nil)
	case key.Matches(msg, keys.Edit):
		if drill, ok := m.current(); ok {
			return m.showDrillForm(&drill)
		}
	case key.Matches(msg, keys.Start):
		return m, m.start()
	case key.Matches(msg, keys.Stop):
		return m, m.stop()
	case key.Matches(msg, keys.Delete):
		return m, m.delete()
	}

	return m, nil
}

func (m drillsModel) current() (models.Drill, bool) {
	if m.cursor < 0 || m.cursor >= len(m.drills) {
		return models.Drill{}, false
	}

	return m.drills[m.cursor], true
}

// activeOn returns the active sessions of drillID.
func (m drillsModel) activeOn(drillID int) []models.UserDrill {
	var out []models.UserDrill

	for i := range m.active {
		if m.active[i].DrillID == drillID && m.active[i].Active() {
			out = append(out, m.active[i])
		}
	}

	return out
}

// pruneSelection forgets selected users that no longer exist.
func (m drillsModel) pruneSelection() {
	*m.selected = slices.DeleteFunc(*m.selected, func(id int) bool {
		return !slices.ContainsFunc(m.users, func(u models.User) bool {
			return u.ID == id
		})
	})
}

func (m drillsModel) start() tea.Cmd {
	drill, ok := m.current()
	if !ok {
		return nil
	}

	if len(*m.selected) == 0 {
		return statusCmd("Pick users with u first", false)
	}

	running := m.activeOn(drill.ID)

	var ids []int

	for _, id := range *m.selected {
		if !slices.ContainsFunc(running, func(ud models.UserDrill) bool {
			return ud.UserID == id
		}) {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return statusCmd("Selected users are already on this drill", false)
	}

	req := models.StartStop{UserIDs: ids, DrillID: drill.ID}

	return m.d.mutate(viewDrills, drillKey("start", drill.ID), func(ctx context.Context) error {
		return m.d.cache.StartDrill(ctx, req)
	})
}

func (m drillsModel) stop() tea.Cmd {
	drill, ok := m.current()
	if !ok {
		return nil
	}

	running := m.activeOn(drill.ID)
	if len(running) == 0 {
		return statusCmd("Nobody is on this drill", false)
	}

	ids := make([]int, 0, len(running))
	for i := range running {
		ids = append(ids, running[i].UserID)
	}

	req := models.StartStop{UserIDs: ids, DrillID: drill.ID}

	return m.d.mutate(viewDrills, drillKey("stop", drill.ID), func(ctx context.Context) error {
		return m.d.cache.StopDrill(ctx, req)
	})
}

func (m drillsModel) delete() tea.Cmd {
	drill, ok := m.current()
	if !ok {
		return nil
	}

	k := drillKey("delete", drill.ID)
	if !m.d.confirmPress(k, m.now) {
		return statusCmd(
			fmt.Sprintf("Press d again to delete %s", drill.DisplayTitle()),
			false,
		)
	}

	return m.d.mutate(viewDrills, k, func(ctx context.Context) error {
		return m.d.cache.DeleteDrill(ctx, drill.ID)
	})
}

func (m drillsModel) showUserPicker() (drillsModel, tea.Cmd) {
	if len(m.users) == 0 {
		return m, statusCmd("No users yet", false)
	}

	*m.formUsers = slices.Clone(*m.selected)
	m.formType = "users"

	users := view.SortUsers(
		m.users,
		view.Sort[view.UserField]{Field: view.UserLastName, Dir: view.Asc},
		m.d.comparer,
	)

	options := make([]huh.Option[int], len(users))
	for i := range users {
		options[i] = huh.NewOption(users[i].FullName(), users[i].ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Users").
				Options(options...).
				Value(m.formUsers),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true

	return m, m.form.Init()
}

func (m drillsModel) showDrillForm(drill *models.Drill) (drillsModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formPrice = ""
	m.formType = "drill"
	m.editingID = 0

	if drill != nil {
		*m.formTitle = drill.Title
		*m.formPrice = strconv.FormatFloat(drill.PricePerMinute, 'f', -1, 64)
		m.formType = "edit_drill"
		m.editingID = drill.ID
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(m.formTitle).
				Validate(requireText("title")),
			huh.NewInput().
				Title("Price per minute").
				Value(m.formPrice).
				Validate(validatePrice),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true

	return m, m.form.Init()
}

func (m drillsModel) updateForm(msg tea.Msg) (drillsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		m.formActive = false
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.formActive = false
		m.form = nil

		return m, nil
	case huh.StateCompleted:
		m.formActive = false
		m.form = nil

		return m, m.submit()
	}

	return m, cmd
}

func (m drillsModel) submit() tea.Cmd {
	switch m.formType {
	case "users":
		*m.selected = slices.Clone(*m.formUsers)
		return statusCmd(fmt.Sprintf("%d users selected", len(*m.selected)), false)
	case "drill", "edit_drill":
		title := strings.TrimSpace(*m.formTitle)

		price, err := strconv.ParseFloat(strings.TrimSpace(*m.formPrice), 64)
		if err != nil {
			return statusCmd("Invalid price", true)
		}

		if m.formType == "drill" {
			req := models.CreateDrill{Title: title, PricePerMinute: price}

			return m.d.mutate(viewDrills, drillKey("create", 0), func(ctx context.Context) error {
				_, err := m.d.cache.CreateDrill(ctx, req)
				return err
			})
		}

		req := models.UpdateDrill{
			DrillID:        m.editingID,
			Title:          title,
			PricePerMinute: price,
		}

		return m.d.mutate(viewDrills, drillKey("update", m.editingID), func(ctx context.Context) error {
			_, err := m.d.cache.UpdateDrill(ctx, req)
			return err
		})
	}

	return nil
}

func (m drillsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Drill")

		switch m.formType {
		case "edit_drill":
			title = titleStyle.Render("Edit Drill")
		case "users":
			title = titleStyle.Render("Pick Users")
		}

		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())

		return panelStyle.Width(w).Render(content)
	}

	if m.err != nil && !m.loaded {
		return panelStyle.Width(w).Render(errorStyle.Render(m.err.Error()))
	}

	if !m.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading drills..."))
	}

	if len(m.drills) == 0 {
		return panelStyle.Width(w).Render(
			mutedStyle.Render("No drills yet. Press n to create one."),
		)
	}

	cards := []string{m.renderSelection()}

	for i := range m.drills {
		cards = append(cards, m.renderCard(&m.drills[i], i == m.cursor, w))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m drillsModel) renderSelection() string {
	if len(*m.selected) == 0 {
		return mutedStyle.Render("  No users picked. Press u to pick users.")
	}

	names := make([]string, 0, len(*m.selected))

	for _, id := range *m.selected {
		for i := range m.users {
			if m.users[i].ID == id {
				names = append(names, m.users[i].FullName())
			}
		}
	}

	return highlightStyle.Render("  Users: " + strings.Join(names, ", "))
}

func (m drillsModel) renderCard(drill *models.Drill, selected bool, w int) string {
	style := panelStyle
	if selected {
		style = activePanelStyle
	}

	title := titleStyle.Render(drill.DisplayTitle())
	if m.d.busy.Has(drillKey("start", drill.ID)) || m.d.busy.Has(drillKey("stop", drill.ID)) {
		title += mutedStyle.Render(" ...")
	}

	if m.d.armed(drillKey("delete", drill.ID), m.now) {
		title += warningStyle.Render("  press d again to delete")
	}

	rows := []string{
		title,
		mutedStyle.Render(fmt.Sprintf("%s per minute", timeutil.FormatCost(drill.PricePerMinute))),
	}

	running := m.activeOn(drill.ID)
	if len(running) == 0 {
		rows = append(rows, mutedStyle.Render("Idle"))
	}

	for i := range running {
		met := running[i].Metrics(m.now)

		line := fmt.Sprintf(
			"● %-24s %12s %10s",
			running[i].UserName(),
			timeutil.FormatDuration(met.Duration),
			timeutil.FormatCost(met.Cost),
		)

		if !met.Valid {
			line = fmt.Sprintf("● %-24s %s", running[i].UserName(), timeutil.InvalidDate)
		}

		rows = append(rows, successStyle.Render(line))
	}

	return style.Width(w).Render(strings.Join(rows, "\n"))
}

func requireText(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errRequired.Fmt(name)
		}

		return nil
	}
}

func validatePrice(s string) error {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || p < 0 {
		return errInvalidPrice
	}

	return nil
}
