package route

import (
	"strings"

	"bookclub-cli/internal/model"
)

type Route string

const (
	Home     Route = "home" // the todo list
	Meetings Route = "meetings"
	Notes    Route = "notes"
	Login    Route = "login"
	Register Route = "register"
)

// All lists routes in header order.
var All = []Route{Home, Meetings, Notes, Login, Register}

// Protected reports whether r needs a logged-in session.
func Protected(r Route) bool {
	switch r {
	case Login, Register:
		return false
	default:
		return true
	}
}

// IsAuthView reports whether r is one of the views the header is hidden on.
func IsAuthView(r Route) bool { return !Protected(r) }

// Resolve returns the route to actually show for a navigation to r.
// Unauthenticated navigation to a protected route lands on Login.
func Resolve(r Route, s model.Session) Route {
	if Protected(r) && !s.Authenticated {
		return Login
	}
	return r
}

// Parse maps user input ("", "/", "todo", "/meetings", ...) to a route.
func Parse(s string) (Route, bool) {
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), "/"))
	switch s {
	case "", "home", "todo":
		return Home, true
	case "meetings":
		return Meetings, true
	case "notes":
		return Notes, true
	case "login":
		return Login, true
	case "register":
		return Register, true
	}
	return "", false
}

func (r Route) Title() string {
	switch r {
	case Home:
		return "Home"
	case Meetings:
		return "Meetings"
	case Notes:
		return "Notes"
	case Login:
		return "Login"
	case Register:
		return "Register"
	}
	return string(r)
}
