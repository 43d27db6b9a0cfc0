package tui

import (
	"strings"
	"testing"
	"time"

	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func duneBackend() *fakeBackend {
	fb := newFakeBackend()
	fb.searches["dune"] = model.SearchPage{Results: []model.Book{{ID: 1, Title: "Dune", Author: "Herbert"}}}
	return fb
}

func TestTodoPage_EmptySubmitMakesNoCalls(t *testing.T) {
	fb := newFakeBackend()
	m := newTestApp(t, fb, true, route.Home)

	m = pressKey(t, m, tea.KeyCtrlS)
	if fb.totalMutations() != 0 {
		t.Fatalf("expected no request for an empty form")
	}
	if !strings.Contains(xansi.Strip(m.View()), forms.MsgSelectBook) {
		t.Fatalf("expected %q in view", forms.MsgSelectBook)
	}
}

func TestTodoPage_AddFlow(t *testing.T) {
	fb := duneBackend()
	m := newTestApp(t, fb, true, route.Home)

	m = typeInto(t, m, "dune")
	m = pressKey(t, m, tea.KeyEnter)
	p := m.page.(*todoPage)
	if p.selected == nil || p.selected.ID != 1 {
		t.Fatalf("expected Dune selected, got %#v", p.selected)
	}
	if p.search.Value() != "Dune" {
		t.Fatalf("expected input to read Dune, got %q", p.search.Value())
	}

	m = pressKey(t, m, tea.KeyCtrlS)
	p = m.page.(*todoPage)
	if len(fb.addedTodos) != 1 || fb.addedTodos[0] != 1 {
		t.Fatalf("expected AddTodo(1), got %v", fb.addedTodos)
	}
	if p.selected != nil || p.search.Value() != "" {
		t.Fatalf("expected the form and widget cleared, got selected=%v value=%q", p.selected, p.search.Value())
	}
	if fb.listTodoCalls != 2 || len(p.entries) != 1 {
		t.Fatalf("expected a re-fetch after adding, got calls=%d entries=%d", fb.listTodoCalls, len(p.entries))
	}
	if !strings.Contains(xansi.Strip(m.View()), "Dune") {
		t.Fatalf("expected the new entry in the table")
	}
}

func TestTodoPage_AddFailureKeepsForm(t *testing.T) {
	fb := duneBackend()
	fb.addErr = errBoom
	m := newTestApp(t, fb, true, route.Home)

	m = typeInto(t, m, "dune")
	m = pressKey(t, m, tea.KeyEnter)
	m = pressKey(t, m, tea.KeyCtrlS)

	p := m.page.(*todoPage)
	if p.flash != forms.MsgAddTodoFailed {
		t.Fatalf("expected %q, got %q", forms.MsgAddTodoFailed, p.flash)
	}
	if p.selected == nil {
		t.Fatalf("expected the selection kept after a failure")
	}
	if fb.listTodoCalls != 1 {
		t.Fatalf("expected no re-fetch after a failure, got %d", fb.listTodoCalls)
	}
}

func TestTodoPage_MouseClickSelects(t *testing.T) {
	fb := newFakeBackend()
	fb.searches["b"] = model.SearchPage{Results: books(3, 0)}
	m := newTestApp(t, fb, true, route.Home)
	m = typeInto(t, m, "b")

	// Header (2 rows) + title, blank, label, input; the second suggestion is one row further.
	y := m.headerHeight() + searchInputRow + 1 + 1
	m = drive(t, m, tea.MouseMsg{X: 5, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	p := m.page.(*todoPage)
	if p.selected == nil || p.selected.ID != 2 {
		t.Fatalf("expected book 2 selected by click, got %#v", p.selected)
	}
}

func TestMeetingsPage_AllFieldsRequired(t *testing.T) {
	fb := duneBackend()
	m := newTestApp(t, fb, true, route.Meetings)

	m = typeInto(t, m, "dune")
	m = pressKey(t, m, tea.KeyEnter)
	m = pressKey(t, m, tea.KeyCtrlS)
	if fb.totalMutations() != 0 {
		t.Fatalf("expected no request for a partial form")
	}
	if got := m.page.(*meetingsPage).flash; got != forms.MsgFillAllFields {
		t.Fatalf("expected %q, got %q", forms.MsgFillAllFields, got)
	}
}

func TestMeetingsPage_Submit(t *testing.T) {
	fb := duneBackend()
	m := newTestApp(t, fb, true, route.Meetings)
	m.page.(*meetingsPage).loc = time.UTC

	m = typeInto(t, m, "dune")
	m = pressKey(t, m, tea.KeyEnter)
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "Kickoff")
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "2026-11-03 19:30")
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "01:30:00")
	m = pressKey(t, m, tea.KeyTab)
	m = pressKey(t, m, tea.KeyEnter)

	if len(fb.createdMeets) != 1 {
		t.Fatalf("expected one meeting created, got %d (flash %q)", len(fb.createdMeets), m.page.(*meetingsPage).flash)
	}
	req := fb.createdMeets[0]
	if req.BookID != 1 || req.Description != "Kickoff" || req.Duration != "01:30:00" {
		t.Fatalf("unexpected request: %#v", req)
	}
	if !req.StartTime.Equal(time.Date(2026, 11, 3, 19, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time: %v", req.StartTime)
	}
	p := m.page.(*meetingsPage)
	if p.description.Value() != "" || p.start.Value() != "" || p.duration.Value() != "" || p.selected != nil {
		t.Fatalf("expected the form cleared after submit")
	}
}

func TestMeetingsPage_BadStartTime(t *testing.T) {
	fb := duneBackend()
	m := newTestApp(t, fb, true, route.Meetings)
	p := m.page.(*meetingsPage)
	b := model.Book{ID: 1}
	p.selected = &b
	p.description.SetValue("Kickoff")
	p.start.SetValue("next tuesday")
	p.duration.SetValue("1h")

	m = pressKey(t, m, tea.KeyCtrlS)
	if got := m.page.(*meetingsPage).flash; got != forms.MsgBadStartTime {
		t.Fatalf("expected %q, got %q", forms.MsgBadStartTime, got)
	}
	if fb.totalMutations() != 0 {
		t.Fatalf("expected no request for a bad start time")
	}
}

func TestMeetingsPage_MissingFieldWinsOverBadStartTime(t *testing.T) {
	fb := duneBackend()
	m := newTestApp(t, fb, true, route.Meetings)
	p := m.page.(*meetingsPage)
	b := model.Book{ID: 1}
	p.selected = &b
	p.start.SetValue("next tuesday")
	p.duration.SetValue("1h")

	m = pressKey(t, m, tea.KeyCtrlS)
	if got := m.page.(*meetingsPage).flash; got != forms.MsgFillAllFields {
		t.Fatalf("expected %q, got %q", forms.MsgFillAllFields, got)
	}
	if fb.totalMutations() != 0 {
		t.Fatalf("expected no request for an incomplete form")
	}
}

func TestNotesPage_SubmitAndAccordion(t *testing.T) {
	fb := duneBackend()
	fb.notes = []model.BookWithNotes{{
		Book:  model.Book{ID: 1, Title: "Dune"},
		Notes: []model.Note{{ID: 1, Note: "Spice **must** flow", PostedBy: 7}},
	}}
	m := newTestApp(t, fb, true, route.Notes)

	m = pressKey(t, m, tea.KeyCtrlS)
	if got := m.page.(*notesPage).flash; got != forms.MsgBookAndNote {
		t.Fatalf("expected %q, got %q", forms.MsgBookAndNote, got)
	}

	out := xansi.Strip(m.View())
	if strings.Contains(out, "Posted by User ID: 7") {
		t.Fatalf("expected notes collapsed by default")
	}

	// Focus the list (search -> note -> submit -> list) and expand the first book.
	for i := 0; i < 3; i++ {
		m = pressKey(t, m, tea.KeyTab)
	}
	m = pressKey(t, m, tea.KeyEnter)
	out = xansi.Strip(m.View())
	if !containsAll(out, "Spice", "Posted by User ID: 7") {
		t.Fatalf("expected the expanded note:\n%s", out)
	}

	// Back to the search field and post a note.
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "dune")
	m = pressKey(t, m, tea.KeyEnter)
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "great read")
	m = pressKey(t, m, tea.KeyCtrlS)

	if len(fb.createdNotes) != 1 || fb.createdNotes[0] != "great read" {
		t.Fatalf("unexpected notes: %v", fb.createdNotes)
	}
	p := m.page.(*notesPage)
	if p.body.Value() != "" || p.search.Value() != "" {
		t.Fatalf("expected the form cleared after submit")
	}
}

func TestNotesPage_EditorResultFillsBody(t *testing.T) {
	fb := duneBackend()
	m := newTestApp(t, fb, true, route.Notes)
	m = pressKey(t, m, tea.KeyTab)

	tag := m.page.(*notesPage).env.tag()
	m = drive(t, m, editorDoneMsg{mountTag: tag, text: "# Chapter one\n", changed: true})
	p := m.page.(*notesPage)
	if p.body.Value() != "# Chapter one\n" {
		t.Fatalf("expected the edited text in the note body, got %q", p.body.Value())
	}
	if !strings.HasPrefix(p.flash, "Updated from") {
		t.Fatalf("unexpected notice %q", p.flash)
	}

	// A result for an earlier mount of the page is dropped.
	m = drive(t, m, editorDoneMsg{mountTag: mountTag{mount: tag.mount - 1}, text: "stale", changed: true})
	if got := m.page.(*notesPage).body.Value(); got != "# Chapter one\n" {
		t.Fatalf("stale editor result applied: %q", got)
	}
}
