package tui

import (
	"context"
	"fmt"
	"strings"

	"bookclub-cli/internal/api"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"
	"bookclub-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"
)

// Backend is the REST surface the TUI talks to. *api.Client implements it.
type Backend interface {
	BookFetcher
	ListTodos(ctx context.Context) ([]model.TodoEntry, error)
	AddTodo(ctx context.Context, bookID int64) error
	ListMeetings(ctx context.Context) ([]model.Meeting, error)
	CreateMeeting(ctx context.Context, req api.CreateMeetingRequest) error
	ListBooksWithNotes(ctx context.Context) ([]model.BookWithNotes, error)
	CreateNote(ctx context.Context, bookID int64, note string) error
	Login(ctx context.Context, username, password string) (api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Logout(ctx context.Context) error
}

var _ Backend = (*api.Client)(nil)

// page is one routed view. Pages mutate in place; the app owns exactly one at a time.
type page interface {
	Route() route.Route
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width int) string
}

// pageEnv is what every page gets at mount time.
type pageEnv struct {
	backend Backend
	sess    *session.Store
	logger  *zap.Logger
	mount   uint64
}

func (e pageEnv) owner(r route.Route) string {
	return fmt.Sprintf("%s#%d", r, e.mount)
}

func (e pageEnv) tag() mountTag { return mountTag{mount: e.mount} }

// mountTag marks a message as belonging to one mounted page instance.
type mountTag struct{ mount uint64 }

func (t mountTag) pageMount() uint64 { return t.mount }

type pageScoped interface{ pageMount() uint64 }

// navigateMsg asks the app to switch routes.
type navigateMsg struct {
	to     route.Route
	notice string
}

func navigateCmd(to route.Route, notice string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to, notice: notice} }
}

// Rows above the search input in every page body: title, blank, label.
const searchInputRow = 3

// focusRing cycles keyboard focus over n slots.
type focusRing struct {
	cur, n int
}

func (f *focusRing) next() { f.cur = (f.cur + 1) % f.n }

func (f *focusRing) prev() { f.cur = (f.cur - 1 + f.n) % f.n }

// routeSearchMouse forwards wheel and pointer events over the suggestion panel.
// y is relative to the page body.
func routeSearchMouse(s *bookSearch, msg tea.MouseMsg, y int) tea.Cmd {
	row := y - searchInputRow - 1
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		return s.Scroll(1)
	case tea.MouseButtonWheelUp:
		return s.Scroll(-1)
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		s.HoverRow(row)
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return s.ClickRow(row)
		}
	}
	return nil
}

func pageTitle(s string) string {
	return styleTitle().Render(s)
}

func fieldLabel(label string, focused bool) string {
	return styleLabel(focused).Render(label)
}

func submitButton(label string, focused bool) string {
	return styleButton(focused).Render(label)
}

func flashLine(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return ""
	}
	return styleError().Render(msg)
}

func selectedLine(b *model.Book) string {
	if b == nil {
		return styleMuted().Render("No book selected")
	}
	return styleMuted().Render(glyphs().selected+" Selected: ") + b.Title + styleMuted().Render(" by "+b.Byline())
}

// renderTable draws rows under headers, clamped to width.
func renderTable(headers []string, rows [][]string, width int) string {
	if len(rows) == 0 {
		return styleMuted().Render("Nothing here yet.")
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorPanelBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

func joinSections(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n")
}
