package tui

import (
	"context"
	"errors"
	"strconv"

	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type todosLoadedMsg struct {
	mountTag
	entries []model.TodoEntry
	err     error
}

type todoAddedMsg struct {
	mountTag
	err error
}

// todoPage is the home view: search a book, add it to the reading list, see the list.
type todoPage struct {
	env    pageEnv
	search bookSearch
	focus  focusRing

	selected *model.Book
	entries  []model.TodoEntry
	loading  bool
	flash    string
	busy     bool
}

const (
	todoFocusSearch = iota
	todoFocusSubmit
	todoFocusCount
)

func newTodoPage(env pageEnv) *todoPage {
	return &todoPage{
		env:     env,
		search:  newBookSearch(env.owner(route.Home), env.backend, env.logger),
		focus:   focusRing{n: todoFocusCount},
		loading: true,
	}
}

func (p *todoPage) Route() route.Route { return route.Home }

func (p *todoPage) Init() tea.Cmd {
	return tea.Batch(p.fetch(), p.search.Focus())
}

func (p *todoPage) fetch() tea.Cmd {
	backend, tag := p.env.backend, p.env.tag()
	return func() tea.Msg {
		entries, err := backend.ListTodos(context.Background())
		return todosLoadedMsg{mountTag: tag, entries: entries, err: err}
	}
}

func (p *todoPage) Update(msg tea.Msg) tea.Cmd {
	if cmd, ok := p.search.Update(msg); ok {
		return cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.search.SetWidth(msg.Width - 4)
		return nil

	case BookSelectedMsg:
		if msg.Owner != p.search.owner {
			return nil
		}
		b := msg.Book
		p.selected = &b
		p.flash = ""
		return nil

	case todosLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.env.logger.Error("list todos failed", zap.Error(msg.err))
			return nil
		}
		p.entries = msg.entries
		return nil

	case todoAddedMsg:
		p.busy = false
		if msg.err != nil {
			p.env.logger.Error("add todo failed", zap.Error(msg.err))
			p.flash = forms.MsgAddTodoFailed
			return nil
		}
		p.selected = nil
		p.flash = ""
		p.loading = true
		return tea.Batch(resetSearchCmd(p.search.owner), p.fetch())

	case tea.MouseMsg:
		return routeSearchMouse(&p.search, msg, msg.Y)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			return p.setFocus(true)
		case "shift+tab":
			return p.setFocus(false)
		case "ctrl+s":
			return p.submit()
		case "enter":
			if p.focus.cur == todoFocusSubmit {
				return p.submit()
			}
		}
		return nil
	}
	return p.search.Forward(msg)
}

func (p *todoPage) setFocus(forward bool) tea.Cmd {
	if forward {
		p.focus.next()
	} else {
		p.focus.prev()
	}
	if p.focus.cur == todoFocusSearch {
		return p.search.Focus()
	}
	p.search.Blur()
	return nil
}

func (p *todoPage) submit() tea.Cmd {
	if p.busy {
		return nil
	}
	form := forms.TodoForm{Book: p.selected}
	if err := form.Validate(); err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			p.flash = verr.Message
		}
		return nil
	}
	p.busy = true
	p.flash = ""
	backend, tag, id := p.env.backend, p.env.tag(), form.Book.ID
	return func() tea.Msg {
		return todoAddedMsg{mountTag: tag, err: backend.AddTodo(context.Background(), id)}
	}
}

func (p *todoPage) View(width int) string {
	form := joinSections(
		pageTitle("My Todo List"),
		fieldLabel("Book", p.focus.cur == todoFocusSearch)+"\n"+p.search.View(),
		selectedLine(p.selected),
		submitButton("Add to Todo", p.focus.cur == todoFocusSubmit),
		flashLine(p.flash),
	)

	var list string
	if p.loading && len(p.entries) == 0 {
		list = styleMuted().Render("Loading...")
	} else {
		rows := make([][]string, 0, len(p.entries))
		for _, e := range p.entries {
			rows = append(rows, []string{
				e.Book.Title,
				e.Book.Author,
				yearCell(e.Book.PublicationYear),
				dateAddedCell(e),
			})
		}
		list = renderTable([]string{"Title", "Author", "Publication Year", "Date Added"}, rows, width)
	}
	return joinSections(form, list)
}

func yearCell(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func dateAddedCell(e model.TodoEntry) string {
	ts, ok := e.Created()
	if !ok {
		return e.CreatedAt
	}
	return ts.Local().Format("Jan 2, 2006")
}
