package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookclub-cli/internal/api"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"
	"bookclub-cli/internal/session"
	"bookclub-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeBackend struct {
	mu sync.Mutex

	searches map[string]model.SearchPage
	pages    map[string]model.SearchPage

	todos    []model.TodoEntry
	meetings []model.Meeting
	notes    []model.BookWithNotes

	loginResp api.LoginResponse
	loginErr  error
	regErr    error
	logoutErr error
	addErr    error

	searchCalls   []string
	nextCalls     []string
	listTodoCalls int
	addedTodos    []int64
	createdMeets  []api.CreateMeetingRequest
	createdNotes  []string
	registered    []api.RegisterRequest
	logoutCalls   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		searches: map[string]model.SearchPage{},
		pages:    map[string]model.SearchPage{},
	}
}

func (f *fakeBackend) SearchBooks(ctx context.Context, q string) (model.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, q)
	if err := ctx.Err(); err != nil {
		return model.SearchPage{}, err
	}
	return f.searches[q], nil
}

func (f *fakeBackend) NextSearchPage(ctx context.Context, cursor string) (model.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCalls = append(f.nextCalls, cursor)
	if err := ctx.Err(); err != nil {
		return model.SearchPage{}, err
	}
	return f.pages[cursor], nil
}

func (f *fakeBackend) ListTodos(context.Context) ([]model.TodoEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listTodoCalls++
	return append([]model.TodoEntry(nil), f.todos...), nil
}

func (f *fakeBackend) AddTodo(_ context.Context, bookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addedTodos = append(f.addedTodos, bookID)
	if f.addErr != nil {
		return f.addErr
	}
	f.todos = append(f.todos, model.TodoEntry{ID: int64(len(f.todos) + 1), Book: model.Book{ID: bookID, Title: "Dune"}, CreatedAt: time.Now().UTC().Format(time.RFC3339)})
	return nil
}

func (f *fakeBackend) ListMeetings(context.Context) ([]model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meetings, nil
}

func (f *fakeBackend) CreateMeeting(_ context.Context, req api.CreateMeetingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdMeets = append(f.createdMeets, req)
	return f.addErr
}

func (f *fakeBackend) ListBooksWithNotes(context.Context) ([]model.BookWithNotes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notes, nil
}

func (f *fakeBackend) CreateNote(_ context.Context, _ int64, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdNotes = append(f.createdNotes, note)
	return f.addErr
}

func (f *fakeBackend) Login(context.Context, string, string) (api.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Register(_ context.Context, req api.RegisterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, req)
	return f.regErr
}

func (f *fakeBackend) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeBackend) totalMutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.addedTodos) + len(f.createdMeets) + len(f.createdNotes) + len(f.registered)
}

var errBoom = errors.New("boom")

// runCmd executes cmd and any batches it expands to. Commands that do not return
// promptly (cursor blink, minibuffer ticks) are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if msg == nil {
			return nil
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// drive sends msg to m and keeps feeding back every message its commands produce.
func drive(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("message loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		mm, cmd := m.Update(next)
		m = mm.(appModel)
		queue = append(queue, runCmd(cmd)...)
	}
	return m
}

func typeInto(t *testing.T, m appModel, text string) appModel {
	t.Helper()
	for _, r := range text {
		m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func pressKey(t *testing.T, m appModel, k tea.KeyType) appModel {
	t.Helper()
	return drive(t, m, tea.KeyMsg{Type: k})
}

func newTestSession(t *testing.T, loggedIn bool) *session.Store {
	t.Helper()
	ctx := context.Background()
	sess, err := session.Open(ctx, store.NewMemory(), nil)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if loggedIn {
		if err := sess.Login(ctx, "7", "tok"); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	return sess
}

func newTestApp(t *testing.T, fb *fakeBackend, loggedIn bool, start route.Route) appModel {
	t.Helper()
	m := newAppModel(fb, newTestSession(t, loggedIn), nil, start)
	for _, msg := range runCmd(m.Init()) {
		m = drive(t, m, msg)
	}
	return drive(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func book(id int64, title string) model.Book {
	return model.Book{ID: id, Title: title, Author: "Herbert", PublicationYear: 1965}
}

func strPtr(s string) *string { return &s }
