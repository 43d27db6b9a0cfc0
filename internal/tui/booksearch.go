package tui

import (
	"context"
	"errors"
	"strings"

	"bookclub-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/junegunn/fzf/src/util"
	"go.uber.org/zap"
)

const (
	searchPanelRows   = 6
	loadMoreThreshold = 2
)

// BookFetcher is the part of the API the search widget needs.
type BookFetcher interface {
	SearchBooks(ctx context.Context, q string) (model.SearchPage, error)
	NextSearchPage(ctx context.Context, cursor string) (model.SearchPage, error)
}

// BookSelectedMsg reports the book picked in the widget identified by Owner.
type BookSelectedMsg struct {
	Owner string
	Book  model.Book
}

// ResetSearchMsg clears the widget identified by Owner.
type ResetSearchMsg struct {
	Owner string
}

func resetSearchCmd(owner string) tea.Cmd {
	return func() tea.Msg { return ResetSearchMsg{Owner: owner} }
}

type searchResultMsg struct {
	owner    string
	gen      uint64
	page     model.SearchPage
	err      error
	appended bool
}

// bookSearch is the incremental autocomplete widget shared by the pages.
//
// Every query gets a new generation; results tagged with an older generation are dropped,
// so the suggestion list and the next cursor always belong to the current input.
type bookSearch struct {
	owner  string
	fetch  BookFetcher
	logger *zap.Logger

	input   textinput.Model
	focused bool

	results  []model.Book
	next     string
	active   int
	open     bool
	inflight bool
	gen      uint64
	cancel   context.CancelFunc

	offset int
	rows   int
	width  int

	slab *util.Slab
}

func newBookSearch(owner string, fetch BookFetcher, logger *zap.Logger) bookSearch {
	in := textinput.New()
	in.Placeholder = "Search for a book..."
	in.Prompt = ""
	in.CharLimit = 200
	if logger == nil {
		logger = zap.NewNop()
	}
	return bookSearch{
		owner:  owner,
		fetch:  fetch,
		logger: logger,
		input:  in,
		active: -1,
		rows:   searchPanelRows,
		width:  60,
		slab:   util.MakeSlab(100*1024, 2048),
	}
}

func (s *bookSearch) Focus() tea.Cmd {
	s.focused = true
	return s.input.Focus()
}

func (s *bookSearch) Blur() {
	s.focused = false
	s.input.Blur()
	s.open = false
}

func (s *bookSearch) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	s.width = w
	s.input.Width = w - 2
}

func (s bookSearch) Value() string { return s.input.Value() }

func (s bookSearch) Suggestions() []model.Book { return s.results }

func (s bookSearch) Highlighted() int { return s.active }

func (s bookSearch) PanelOpen() bool { return s.open && len(s.results) > 0 }

// Update handles msg and reports whether the widget consumed it.
func (s *bookSearch) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case ResetSearchMsg:
		if msg.Owner != s.owner {
			return nil, false
		}
		s.reset()
		return nil, true

	case searchResultMsg:
		if msg.owner != s.owner {
			return nil, false
		}
		s.applyResult(msg)
		return nil, true

	case tea.KeyMsg:
		if !s.focused {
			return nil, false
		}
		return s.updateKey(msg)
	}
	return nil, false
}

func (s *bookSearch) updateKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "down", "ctrl+n":
		if !s.PanelOpen() {
			return nil, false
		}
		s.move(1)
		return s.maybeLoadMore(), true
	case "up", "ctrl+p":
		if !s.PanelOpen() {
			return nil, false
		}
		s.move(-1)
		return nil, true
	case "enter", "tab":
		if !s.PanelOpen() || s.active < 0 || s.active >= len(s.results) {
			return nil, false
		}
		return s.selectIndex(s.active), true
	case "esc":
		if !s.open {
			return nil, false
		}
		s.open = false
		return nil, true
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete,
		tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd,
		tea.KeyCtrlA, tea.KeyCtrlE, tea.KeyCtrlK, tea.KeyCtrlU, tea.KeyCtrlW:
	default:
		return nil, false
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return cmd, true
	}
	return tea.Batch(cmd, s.query(s.input.Value())), true
}

// Forward passes non-key messages (cursor blink) to the focused input.
func (s *bookSearch) Forward(msg tea.Msg) tea.Cmd {
	if !s.focused {
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// query starts a search for q, superseding any request in flight.
func (s *bookSearch) query(q string) tea.Cmd {
	s.gen++
	// Suggestions on screen belong to the previous input until the new page lands.
	s.active = -1
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if strings.TrimSpace(q) == "" {
		s.results = nil
		s.next = ""
		s.offset = 0
		s.open = false
		s.inflight = false
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.inflight = true
	s.open = true
	owner, gen, fetch := s.owner, s.gen, s.fetch
	return func() tea.Msg {
		page, err := fetch.SearchBooks(ctx, q)
		return searchResultMsg{owner: owner, gen: gen, page: page, err: err}
	}
}

// maybeLoadMore fetches the next page when the visible window nears the end of the list.
func (s *bookSearch) maybeLoadMore() tea.Cmd {
	if s.next == "" || s.inflight {
		return nil
	}
	if s.offset+s.rows < len(s.results)-loadMoreThreshold {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.inflight = true
	owner, gen, fetch, cursor := s.owner, s.gen, s.fetch, s.next
	return func() tea.Msg {
		page, err := fetch.NextSearchPage(ctx, cursor)
		return searchResultMsg{owner: owner, gen: gen, page: page, err: err, appended: true}
	}
}

func (s *bookSearch) applyResult(msg searchResultMsg) {
	if msg.gen != s.gen {
		return
	}
	s.inflight = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			s.logger.Error("book search failed", zap.Error(msg.err))
		}
		return
	}

	if msg.appended {
		s.results = append(s.results, msg.page.Results...)
	} else {
		s.results = msg.page.Results
		s.offset = 0
		s.active = -1
		if len(s.results) > 0 {
			s.active = 0
		}
	}
	s.next = msg.page.NextCursor()
}

func (s *bookSearch) move(delta int) {
	n := len(s.results)
	if n == 0 {
		return
	}
	s.active += delta
	if s.active < 0 {
		s.active = 0
	}
	if s.active > n-1 {
		s.active = n - 1
	}
	if s.active < s.offset {
		s.offset = s.active
	}
	if s.active >= s.offset+s.rows {
		s.offset = s.active - s.rows + 1
	}
}

func (s *bookSearch) selectIndex(i int) tea.Cmd {
	book := s.results[i]
	s.active = i
	s.input.SetValue(book.Title)
	s.input.CursorEnd()
	s.open = false
	owner := s.owner
	return func() tea.Msg { return BookSelectedMsg{Owner: owner, Book: book} }
}

func (s *bookSearch) reset() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.input.SetValue("")
	s.results = nil
	s.next = ""
	s.active = -1
	s.offset = 0
	s.open = false
	s.inflight = false
}

// HoverRow highlights the suggestion shown on panel row r.
func (s *bookSearch) HoverRow(r int) {
	if i, ok := s.rowIndex(r); ok {
		s.active = i
	}
}

// ClickRow selects the suggestion shown on panel row r.
func (s *bookSearch) ClickRow(r int) tea.Cmd {
	i, ok := s.rowIndex(r)
	if !ok {
		return nil
	}
	return s.selectIndex(i)
}

// Scroll moves the visible window by delta rows.
func (s *bookSearch) Scroll(delta int) tea.Cmd {
	if !s.PanelOpen() {
		return nil
	}
	maxOffset := len(s.results) - s.rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	s.offset += delta
	if s.offset < 0 {
		s.offset = 0
	}
	if s.offset > maxOffset {
		s.offset = maxOffset
	}
	return s.maybeLoadMore()
}

func (s bookSearch) rowIndex(r int) (int, bool) {
	if !s.PanelOpen() || r < 0 || r >= s.rows {
		return 0, false
	}
	i := s.offset + r
	if i >= len(s.results) {
		return 0, false
	}
	return i, true
}
