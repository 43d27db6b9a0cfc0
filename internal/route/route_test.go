package route

import (
	"testing"

	"bookclub-cli/internal/model"
)

func TestResolve(t *testing.T) {
	loggedOut := model.Session{}
	loggedIn := model.Session{UserID: "1", Token: "t", Authenticated: true}

	cases := []struct {
		to   Route
		s    model.Session
		want Route
	}{
		{Home, loggedOut, Login},
		{Meetings, loggedOut, Login},
		{Notes, loggedOut, Login},
		{Login, loggedOut, Login},
		{Register, loggedOut, Register},
		{Home, loggedIn, Home},
		{Meetings, loggedIn, Meetings},
		{Notes, loggedIn, Notes},
		{Login, loggedIn, Login},
	}
	for _, tc := range cases {
		if got := Resolve(tc.to, tc.s); got != tc.want {
			t.Fatalf("Resolve(%s, auth=%v) = %s; want %s", tc.to, tc.s.Authenticated, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Route{
		"":           Home,
		"/":          Home,
		"todo":       Home,
		"/meetings":  Meetings,
		"Notes":      Notes,
		"/register/": Register,
	} {
		got, ok := Parse(in)
		if !ok || got != want {
			t.Fatalf("Parse(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := Parse("/admin"); ok {
		t.Fatalf("expected unknown route to be rejected")
	}
}

func TestAll_RoundTripsThroughParse(t *testing.T) {
	for _, r := range All {
		got, ok := Parse(string(r))
		if !ok || got != r {
			t.Fatalf("Parse(%q) = %q, %v", r, got, ok)
		}
	}
}
