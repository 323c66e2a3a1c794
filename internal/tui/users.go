package tui

import (
	"context"
	"fmt"
	"net/mail"
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

type usersModel struct {
	d      *deps
	width  int
	height int
	now    time.Time

	users  []models.User
	sort   view.Sort[view.UserField]
	column int
	cursor int
	seq    int
	loaded bool
	err    error

	form       *huh.Form
	formActive bool
	formType   string
	editingID  int
	formFirst  *string
	formLast   *string
	formEmail  *string
}

func newUsersModel(d *deps) usersModel {
	return usersModel{
		d:         d,
		sort:      view.DefaultUserSort,
		formFirst: new(string),
		formLast:  new(string),
		formEmail: new(string),
	}
}

func (m *usersModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m usersModel) load() tea.Cmd {
	return m.d.load(viewUsers, m.seq, fetch{users: true})
}

func (m usersModel) reload() (usersModel, tea.Cmd) {
	m.seq++
	return m, m.load()
}

func (m usersModel) close() usersModel {
	m.seq++
	m.formActive = false
	m.form = nil

	return m
}

func (m usersModel) rows() []models.User {
	return view.SortUsers(m.users, m.sort, m.d.comparer)
}

func (m usersModel) update(msg tea.Msg) (usersModel, tea.Cmd) {
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
			m.users = msg.users
		}

		m.cursor = clampCursor(m.cursor, len(m.users))

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m usersModel) updateKeys(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Left):
		if m.column > 0 {
			m.column--
		}
	case key.Matches(msg, keys.Right):
		if m.column < len(view.UserFields())-1 {
			m.column++
		}
	case key.Matches(msg, keys.Sort):
		fields := view.UserFields()
		m.sort = m.sort.Toggle(fields[clampCursor(m.column, len(fields))])
	case key.Matches(msg, keys.New):
		return m.showUserForm(nil)
	case key.Matches(msg, keys.Edit):
		if u, ok := m.current(); ok {
			return m.showUserForm(&u)
		}
	case key.Matches(msg, keys.Delete):
		return m, m.delete()
	}

	return m, nil
}

func (m usersModel) current() (models.User, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return models.User{}, false
	}

	return rows[m.cursor], true
}

func (m usersModel) delete() tea.Cmd {
	u, ok := m.current()
	if !ok {
		return nil
	}

	k := userKey("delete", u.ID)
	if !m.d.confirmPress(k, m.now) {
		return statusCmd(fmt.Sprintf("Press d again to delete %s", u.FullName()), false)
	}

	return m.d.mutate(viewUsers, k, func(ctx context.Context) error {
		return m.d.cache.DeleteUser(ctx, u.ID)
	})
}

func (m usersModel) showUserForm(u *models.User) (usersModel, tea.Cmd) {
	*m.formFirst = ""
	*m.formLast = ""
	*m.formEmail = ""
	m.formType = "user"
	m.editingID = 0

	if u != nil {
		*m.formFirst = u.FirstName
		*m.formLast = u.LastName
		*m.formEmail = u.EmailOrEmpty()
		m.formType = "edit_user"
		m.editingID = u.ID
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First name").
				Value(m.formFirst).
				Validate(requireText("first name")),
			huh.NewInput().
				Title("Last name").
				Value(m.formLast).
				Validate(requireText("last name")),
			huh.NewInput().
				Title("Email").
				Description("Optional").
				Value(m.formEmail).
				Validate(validateEmail),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true

	return m, m.form.Init()
}

func (m usersModel) updateForm(msg tea.Msg) (usersModel, tea.Cmd) {
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

func (m usersModel) submit() tea.Cmd {
	first := strings.TrimSpace(*m.formFirst)
	last := strings.TrimSpace(*m.formLast)

	var email *string
	if e := strings.TrimSpace(*m.formEmail); e != "" {
		email = &e
	}

	if m.formType == "edit_user" {
		req := models.UpdateUser{
			UserID:    m.editingID,
			FirstName: first,
			LastName:  last,
			Email:     email,
		}

		return m.d.mutate(viewUsers, userKey("update", m.editingID), func(ctx context.Context) error {
			_, err := m.d.cache.UpdateUser(ctx, req)
			return err
		})
	}

	req := models.CreateUser{FirstName: first, LastName: last, Email: email}

	return m.d.mutate(viewUsers, userKey("create", 0), func(ctx context.Context) error {
		_, err := m.d.cache.CreateUser(ctx, req)
		return err
	})
}

func (m usersModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New User")
		if m.formType == "edit_user" {
			title = titleStyle.Render("Edit User")
		}

		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())

		return panelStyle.Width(w).Render(content)
	}

	if m.err != nil && !m.loaded {
		return panelStyle.Width(w).Render(errorStyle.Render(m.err.Error()))
	}

	if !m.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading users..."))
	}

	if len(m.users) == 0 {
		return panelStyle.Width(w).Render(
			mutedStyle.Render("No users yet. Press n to create one."),
		)
	}

	users := m.rows()

	cols := []column{
		{title: "ID", width: 6},
		{title: "First name", width: 16},
		{title: "Last name", width: 16},
		{title: "Email", width: 28},
		{title: "Created", width: 16},
	}

	for i, f := range view.UserFields() {
		cols[i].sorted = m.sort.Field == f
		cols[i].dir = m.sort.Dir
		cols[i].selected = m.column == i
	}

	rows := make([][]string, len(users))
	for i := range users {
		rows[i] = []string{
			strconv.Itoa(users[i].ID),
			users[i].FirstName,
			users[i].LastName,
			users[i].EmailOrEmpty(),
			timeutil.FormatDate(users[i].CreatedAt),
		}
	}

	table := renderTable(cols, rows, m.cursor, func(i int) lipgloss.Style {
		switch {
		case m.d.armed(userKey("delete", users[i].ID), m.now):
			return warningStyle
		case m.d.busy.Has(userKey("delete", users[i].ID)):
			return mutedStyle
		case i == m.cursor:
			return selectedItemStyle
		default:
			return normalItemStyle
		}
	})

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Users (%d)", len(users))),
		table,
	)

	return panelStyle.Width(w).Render(content)
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if _, err := mail.ParseAddress(s); err != nil {
		return errInvalidEmail
	}

	return nil
}
