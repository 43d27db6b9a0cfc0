package tui

import (
	"context"
	"strings"
	"time"

	"bookclub-cli/internal/route"
	"bookclub-cli/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	minibufferAutoClearAfter = 4 * time.Second
	msgLogoutFailed          = "Logout failed. Please try again."
)

type minibufferTickMsg struct{}

type logoutDoneMsg struct{ err error }

type keyMap struct {
	Home     key.Binding
	Meetings key.Binding
	Notes    key.Binding
	Logout   key.Binding
	Register key.Binding
	Login    key.Binding
	Submit   key.Binding
	Focus    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Home:     key.NewBinding(key.WithKeys("f1", "alt+1"), key.WithHelp("f1", "todo")),
		Meetings: key.NewBinding(key.WithKeys("f2", "alt+2"), key.WithHelp("f2", "meetings")),
		Notes:    key.NewBinding(key.WithKeys("f3", "alt+3"), key.WithHelp("f3", "notes")),
		Logout:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "logout")),
		Register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		Login:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "login")),
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Focus:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// appModel routes between pages and owns the header, the minibuffer and the route guard.
type appModel struct {
	backend Backend
	sess    *session.Store
	logger  *zap.Logger

	keys keyMap
	help help.Model

	route route.Route
	page  page
	mount uint64

	width  int
	height int

	minibufferText  string
	minibufferSetAt time.Time
}

func newAppModel(backend Backend, sess *session.Store, logger *zap.Logger, start route.Route) appModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := appModel{
		backend: backend,
		sess:    sess,
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.mountRoute(start)
	return m
}

// mountRoute applies the route guard and builds a fresh page for the result.
func (m *appModel) mountRoute(to route.Route) {
	resolved := route.Resolve(to, m.sess.Snapshot())
	if resolved != to {
		m.logger.Debug("route guarded", zap.String("to", string(to)), zap.String("resolved", string(resolved)))
	}
	m.mount++
	env := pageEnv{backend: m.backend, sess: m.sess, logger: m.logger.With(zap.String("page", string(resolved))), mount: m.mount}
	switch resolved {
	case route.Meetings:
		m.page = newMeetingsPage(env)
	case route.Notes:
		m.page = newNotesPage(env)
	case route.Register:
		m.page = newRegisterPage(env)
	case route.Login:
		m.page = newLoginPage(env)
	default:
		m.page = newTodoPage(env)
	}
	m.route = resolved
}

func (m *appModel) navigate(to route.Route) tea.Cmd {
	m.mountRoute(to)
	cmds := []tea.Cmd{m.page.Init()}
	if m.width > 0 {
		cmds = append(cmds, m.page.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height}))
	}
	return tea.Batch(cmds...)
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = text
	m.minibufferSetAt = time.Now()
	return tea.Tick(minibufferAutoClearAfter, func(time.Time) tea.Msg { return minibufferTickMsg{} })
}

func (m appModel) Init() tea.Cmd { return m.page.Init() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, m.page.Update(msg)

	case minibufferTickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) >= minibufferAutoClearAfter {
			m.minibufferText = ""
		}
		return m, nil

	case navigateMsg:
		cmd := m.navigate(msg.to)
		if msg.notice != "" {
			cmd = tea.Batch(cmd, m.showMinibuffer(msg.notice))
		}
		return m, cmd

	case logoutDoneMsg:
		if msg.err != nil {
			return m, m.showMinibuffer(msgLogoutFailed)
		}
		return m, m.navigate(route.Login)

	case pageScoped:
		// Results for a page that has since been unmounted.
		if msg.pageMount() != m.mount {
			return m, nil
		}
		return m, m.page.Update(msg)

	case tea.MouseMsg:
		msg.Y -= m.headerHeight()
		return m, m.page.Update(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if route.IsAuthView(m.route) {
			switch {
			case m.route == route.Login && key.Matches(msg, m.keys.Register):
				return m, m.navigate(route.Register)
			case m.route == route.Register && key.Matches(msg, m.keys.Login):
				return m, m.navigate(route.Login)
			}
			return m, m.page.Update(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Home):
			return m, m.navigate(route.Home)
		case key.Matches(msg, m.keys.Meetings):
			return m, m.navigate(route.Meetings)
		case key.Matches(msg, m.keys.Notes):
			return m, m.navigate(route.Notes)
		case key.Matches(msg, m.keys.Logout):
			return m, m.logout()
		}
		return m, m.page.Update(msg)
	}
	return m, m.page.Update(msg)
}

func (m appModel) logout() tea.Cmd {
	sess, remote := m.sess, m.backend
	return func() tea.Msg {
		return logoutDoneMsg{err: sess.Logout(context.Background(), remote)}
	}
}

func (m appModel) headerHeight() int {
	if route.IsAuthView(m.route) {
		return 0
	}
	// Tabs line plus a blank separator.
	return 2
}

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	body := lipgloss.NewStyle().PaddingLeft(1).Render(m.page.View(w - 2))
	parts := []string{}
	if !route.IsAuthView(m.route) {
		parts = append(parts, m.headerView(w), "")
	}
	parts = append(parts, body, "", m.footerView())
	return strings.Join(parts, "\n")
}

func (m appModel) headerView(w int) string {
	tabs := []struct {
		r    route.Route
		keys string
	}{{route.Home, "f1"}, {route.Meetings, "f2"}, {route.Notes, "f3"}}

	active := lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg).Bold(true).Padding(0, 1)
	idle := lipgloss.NewStyle().Foreground(colorChromeFg).Padding(0, 1)

	var b strings.Builder
	b.WriteString(styleTitle().Render("Book Club") + "  ")
	for _, t := range tabs {
		label := t.r.Title() + " " + styleMuted().Render(t.keys)
		if t.r == m.route {
			b.WriteString(active.Render(t.r.Title()))
			continue
		}
		b.WriteString(idle.Render(label))
	}
	left := b.String()

	right := idle.Render("Logout " + styleMuted().Render("ctrl+x"))
	if uid := m.sess.Snapshot().UserID; uid != "" {
		right = styleMuted().Render("user "+uid) + " " + right
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) footerView() string {
	var bindings []key.Binding
	if route.IsAuthView(m.route) {
		if m.route == route.Login {
			bindings = []key.Binding{m.keys.Focus, m.keys.Register, m.keys.Quit}
		} else {
			bindings = []key.Binding{m.keys.Focus, m.keys.Login, m.keys.Quit}
		}
	} else {
		bindings = []key.Binding{m.keys.Focus, m.keys.Submit, m.keys.Home, m.keys.Meetings, m.keys.Notes, m.keys.Logout, m.keys.Quit}
	}
	line := m.help.ShortHelpView(bindings)
	if m.minibufferText != "" {
		line = m.minibufferText + "\n" + line
	}
	return line
}
