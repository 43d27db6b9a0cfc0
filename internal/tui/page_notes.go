package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type notesLoadedMsg struct {
	mountTag
	books []model.BookWithNotes
	err   error
}

type noteAddedMsg struct {
	mountTag
	err error
}

const (
	noteFocusSearch = iota
	noteFocusBody
	noteFocusSubmit
	noteFocusList
	noteFocusCount
)

// notesPage posts notes on a book and lists every book's notes as an accordion.
type notesPage struct {
	env    pageEnv
	search bookSearch
	focus  focusRing
	body   textarea.Model

	selected *model.Book
	books    []model.BookWithNotes
	cursor   int
	expanded map[int64]bool
	loading  bool
	flash    string
	busy     bool
}

func newNotesPage(env pageEnv) *notesPage {
	ta := textarea.New()
	ta.Placeholder = "Write a note (markdown, ctrl+e for $EDITOR)..."
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.CharLimit = 5000

	return &notesPage{
		env:      env,
		search:   newBookSearch(env.owner(route.Notes), env.backend, env.logger),
		focus:    focusRing{n: noteFocusCount},
		body:     ta,
		expanded: map[int64]bool{},
		loading:  true,
	}
}

func (p *notesPage) Route() route.Route { return route.Notes }

func (p *notesPage) Init() tea.Cmd {
	return tea.Batch(p.fetch(), p.search.Focus())
}

func (p *notesPage) fetch() tea.Cmd {
	backend, tag := p.env.backend, p.env.tag()
	return func() tea.Msg {
		books, err := backend.ListBooksWithNotes(context.Background())
		return notesLoadedMsg{mountTag: tag, books: books, err: err}
	}
}

func (p *notesPage) Update(msg tea.Msg) tea.Cmd {
	if cmd, ok := p.search.Update(msg); ok {
		return cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.search.SetWidth(msg.Width - 4)
		p.body.SetWidth(msg.Width - 4)
		return nil

	case BookSelectedMsg:
		if msg.Owner != p.search.owner {
			return nil
		}
		b := msg.Book
		p.selected = &b
		return nil

	case notesLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.env.logger.Error("list notes failed", zap.Error(msg.err))
			return nil
		}
		p.books = msg.books
		if p.cursor >= len(p.books) {
			p.cursor = max(len(p.books)-1, 0)
		}
		return nil

	case noteAddedMsg:
		p.busy = false
		if msg.err != nil {
			p.env.logger.Error("add note failed", zap.Error(msg.err))
			p.flash = forms.MsgAddNoteFailed
			return nil
		}
		if p.selected != nil {
			p.expanded[p.selected.ID] = true
		}
		p.selected = nil
		p.flash = ""
		p.body.Reset()
		p.loading = true
		return tea.Batch(resetSearchCmd(p.search.owner), p.fetch())

	case editorDoneMsg:
		if msg.err == nil {
			p.body.SetValue(msg.text)
		}
		p.flash = editorNotice(msg)
		return nil

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
		}
		switch p.focus.cur {
		case noteFocusBody:
			if msg.String() == "ctrl+e" {
				return p.openEditor()
			}
			var cmd tea.Cmd
			p.body, cmd = p.body.Update(msg)
			return cmd
		case noteFocusSubmit:
			if msg.String() == "enter" {
				return p.submit()
			}
		case noteFocusList:
			p.updateList(msg)
		}
		return nil
	}
	if p.focus.cur == noteFocusBody {
		var cmd tea.Cmd
		p.body, cmd = p.body.Update(msg)
		return cmd
	}
	return p.search.Forward(msg)
}

func (p *notesPage) updateList(msg tea.KeyMsg) {
	if len(p.books) == 0 {
		return
	}
	switch msg.String() {
	case "down", "j":
		p.cursor = min(p.cursor+1, len(p.books)-1)
	case "up", "k":
		p.cursor = max(p.cursor-1, 0)
	case "enter", " ":
		id := p.books[p.cursor].ID
		p.expanded[id] = !p.expanded[id]
	}
}

func (p *notesPage) setFocus(forward bool) tea.Cmd {
	if forward {
		p.focus.next()
	} else {
		p.focus.prev()
	}
	p.search.Blur()
	p.body.Blur()
	switch p.focus.cur {
	case noteFocusSearch:
		return p.search.Focus()
	case noteFocusBody:
		return p.body.Focus()
	}
	return nil
}

func (p *notesPage) openEditor() tea.Cmd {
	cmd, err := editInEditor(p.env.tag(), p.body.Value())
	if err != nil {
		p.flash = "Editor failed: " + err.Error()
		return nil
	}
	return cmd
}

func (p *notesPage) submit() tea.Cmd {
	if p.busy {
		return nil
	}
	form := forms.NoteForm{Book: p.selected, Note: p.body.Value()}
	if err := form.Validate(); err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			p.flash = verr.Message
		}
		return nil
	}
	p.busy = true
	p.flash = ""
	backend, tag, id, note := p.env.backend, p.env.tag(), form.Book.ID, form.Note
	return func() tea.Msg {
		return noteAddedMsg{mountTag: tag, err: backend.CreateNote(context.Background(), id, note)}
	}
}

func (p *notesPage) View(width int) string {
	f := p.focus.cur
	form := joinSections(
		pageTitle("Book Notes"),
		fieldLabel("Book", f == noteFocusSearch)+"\n"+p.search.View(),
		selectedLine(p.selected),
		fieldLabel("Note", f == noteFocusBody)+"\n"+p.body.View(),
		submitButton("Add Note", f == noteFocusSubmit),
		flashLine(p.flash),
	)
	return joinSections(form, p.listView(width))
}

func (p *notesPage) listView(width int) string {
	if p.loading && len(p.books) == 0 {
		return styleMuted().Render("Loading...")
	}
	if len(p.books) == 0 {
		return styleMuted().Render("No notes yet.")
	}
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for i, book := range p.books {
		marker := glyphTwisty(p.expanded[book.ID])
		head := fmt.Sprintf("%s %s  %s", marker, book.Title, styleMuted().Render(fmt.Sprintf("%d notes", len(book.Notes))))
		if p.focus.cur == noteFocusList && i == p.cursor {
			head = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true).Render(head)
		}
		b.WriteString(head)
		b.WriteString("\n")
		if !p.expanded[book.ID] {
			continue
		}
		indent := lipgloss.NewStyle().PaddingLeft(4)
		for _, n := range book.Notes {
			b.WriteString(indent.Render(renderNote(n.Note, width-6)))
			b.WriteString("\n")
			b.WriteString(indent.Render(styleMuted().Render(fmt.Sprintf("Posted by User ID: %d", n.PostedBy))))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
