package tui

import (
	"strings"
	"testing"
	"time"

	"bookclub-cli/internal/api"
	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func TestApp_GuardRedirectsToLogin(t *testing.T) {
	for _, r := range []route.Route{route.Home, route.Meetings, route.Notes} {
		m := newTestApp(t, newFakeBackend(), false, r)
		if m.route != route.Login {
			t.Fatalf("%s: expected login, got %s", r, m.route)
		}
	}
	m := newTestApp(t, newFakeBackend(), true, route.Meetings)
	if m.route != route.Meetings {
		t.Fatalf("expected meetings for a logged-in session, got %s", m.route)
	}
}

func TestApp_HeaderHiddenOnAuthViews(t *testing.T) {
	m := newTestApp(t, newFakeBackend(), false, route.Login)
	if strings.Contains(xansi.Strip(m.View()), "Book Club") {
		t.Fatalf("expected no header on the login view")
	}

	m = newTestApp(t, newFakeBackend(), true, route.Home)
	out := xansi.Strip(m.View())
	if !containsAll(out, "Book Club", "Meetings", "Notes", "Logout") {
		t.Fatalf("expected header on the home view:\n%s", out)
	}
}

func TestApp_NavigationKeys(t *testing.T) {
	fb := newFakeBackend()
	m := newTestApp(t, fb, true, route.Home)

	m = pressKey(t, m, tea.KeyF2)
	if m.route != route.Meetings {
		t.Fatalf("expected meetings, got %s", m.route)
	}
	m = pressKey(t, m, tea.KeyF3)
	if m.route != route.Notes {
		t.Fatalf("expected notes, got %s", m.route)
	}
	m = pressKey(t, m, tea.KeyF1)
	if m.route != route.Home {
		t.Fatalf("expected home, got %s", m.route)
	}
	if fb.listTodoCalls != 2 {
		t.Fatalf("expected the todo list fetched on every mount, got %d", fb.listTodoCalls)
	}
}

func TestApp_DropsMessagesForUnmountedPage(t *testing.T) {
	m := newTestApp(t, newFakeBackend(), true, route.Home)
	stale := m.mount

	m = pressKey(t, m, tea.KeyF2)
	m = drive(t, m, todosLoadedMsg{mountTag: mountTag{mount: stale}, entries: []model.TodoEntry{{ID: 9}}})
	if m.route != route.Meetings {
		t.Fatalf("expected to stay on meetings, got %s", m.route)
	}

	m = pressKey(t, m, tea.KeyF1)
	p := m.page.(*todoPage)
	if len(p.entries) != 0 {
		t.Fatalf("stale entries leaked into the new page: %#v", p.entries)
	}
}

func TestApp_LogoutFailureKeepsSession(t *testing.T) {
	fb := newFakeBackend()
	fb.logoutErr = errBoom
	m := newTestApp(t, fb, true, route.Home)

	m = pressKey(t, m, tea.KeyCtrlX)
	if fb.logoutCalls != 1 {
		t.Fatalf("expected one logout call, got %d", fb.logoutCalls)
	}
	if m.route != route.Home {
		t.Fatalf("expected to stay home, got %s", m.route)
	}
	if !m.sess.Snapshot().Authenticated {
		t.Fatalf("expected the session to survive a failed logout")
	}
	if m.minibufferText != msgLogoutFailed {
		t.Fatalf("expected %q, got %q", msgLogoutFailed, m.minibufferText)
	}
}

func TestApp_LogoutNavigatesToLogin(t *testing.T) {
	fb := newFakeBackend()
	m := newTestApp(t, fb, true, route.Home)

	m = pressKey(t, m, tea.KeyCtrlX)
	if m.route != route.Login {
		t.Fatalf("expected login, got %s", m.route)
	}
	if m.sess.Snapshot().Authenticated {
		t.Fatalf("expected the session cleared")
	}
}

func TestApp_MinibufferAutoClears(t *testing.T) {
	m := newTestApp(t, newFakeBackend(), true, route.Home)
	(&m).showMinibuffer("Hello")

	m.minibufferSetAt = time.Now()
	mm, _ := m.Update(minibufferTickMsg{})
	m = mm.(appModel)
	if m.minibufferText == "" {
		t.Fatalf("expected a recent message to remain")
	}

	m.minibufferSetAt = time.Now().Add(-minibufferAutoClearAfter - 100*time.Millisecond)
	mm, _ = m.Update(minibufferTickMsg{})
	m = mm.(appModel)
	if m.minibufferText != "" {
		t.Fatalf("expected the minibuffer cleared, got %q", m.minibufferText)
	}
}

func TestLogin_SuccessNavigatesHome(t *testing.T) {
	fb := newFakeBackend()
	fb.loginResp = api.LoginResponse{UserID: "42", Key: "secret"}
	m := newTestApp(t, fb, false, route.Home)

	m = typeInto(t, m, "ann")
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "pw")
	m = pressKey(t, m, tea.KeyEnter)

	if m.route != route.Home {
		t.Fatalf("expected home after login, got %s", m.route)
	}
	snap := m.sess.Snapshot()
	if !snap.Authenticated || snap.UserID != "42" || snap.Token != "secret" {
		t.Fatalf("unexpected session: %#v", snap)
	}
}

func TestLogin_FailureShowsMessage(t *testing.T) {
	fb := newFakeBackend()
	fb.loginErr = &api.Error{StatusCode: 400}
	m := newTestApp(t, fb, false, route.Login)

	m = typeInto(t, m, "ann")
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "bad")
	m = pressKey(t, m, tea.KeyEnter)

	if m.route != route.Login {
		t.Fatalf("expected to stay on login, got %s", m.route)
	}
	if !strings.Contains(xansi.Strip(m.View()), forms.MsgLoginFailed) {
		t.Fatalf("expected %q in view", forms.MsgLoginFailed)
	}
	if m.sess.Snapshot().Authenticated {
		t.Fatalf("expected no session after a failed login")
	}
}

func TestLogin_EmptyFormMakesNoCall(t *testing.T) {
	fb := newFakeBackend()
	fb.loginErr = errBoom
	m := newTestApp(t, fb, false, route.Login)

	m = pressKey(t, m, tea.KeyCtrlS)
	p := m.page.(*loginPage)
	if p.flash == "" || p.busy {
		t.Fatalf("expected a validation message without a request, got flash=%q busy=%v", p.flash, p.busy)
	}
}

func TestRegister_MismatchAndSuccess(t *testing.T) {
	fb := newFakeBackend()
	m := newTestApp(t, fb, false, route.Login)
	m = pressKey(t, m, tea.KeyCtrlR)
	if m.route != route.Register {
		t.Fatalf("expected register, got %s", m.route)
	}

	m = typeInto(t, m, "ann")
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "pw1")
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "pw2")
	m = pressKey(t, m, tea.KeyEnter)
	if !strings.Contains(xansi.Strip(m.View()), "Passwords do not match") {
		t.Fatalf("expected mismatch message")
	}
	if fb.totalMutations() != 0 {
		t.Fatalf("expected no request for mismatched passwords")
	}

	m = pressKey(t, m, tea.KeyBackspace)
	m = typeInto(t, m, "1")
	m = pressKey(t, m, tea.KeyEnter)
	if m.route != route.Login {
		t.Fatalf("expected login after registering, got %s", m.route)
	}
	if len(fb.registered) != 1 || fb.registered[0].Password1 != "pw1" || fb.registered[0].Password2 != "pw1" {
		t.Fatalf("unexpected register request: %#v", fb.registered)
	}
	if m.minibufferText != msgRegistered {
		t.Fatalf("expected %q, got %q", msgRegistered, m.minibufferText)
	}
}

func TestRegister_FailureShowsMessage(t *testing.T) {
	fb := newFakeBackend()
	fb.regErr = errBoom
	m := newTestApp(t, fb, false, route.Register)

	m = typeInto(t, m, "ann")
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "pw")
	m = pressKey(t, m, tea.KeyTab)
	m = typeInto(t, m, "pw")
	m = pressKey(t, m, tea.KeyEnter)
	if m.route != route.Register {
		t.Fatalf("expected to stay on register, got %s", m.route)
	}
	if !strings.Contains(xansi.Strip(m.View()), forms.MsgRegisterFailed) {
		t.Fatalf("expected %q in view", forms.MsgRegisterFailed)
	}
}
