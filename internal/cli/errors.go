package cli

import "fmt"

type notLoggedInError struct {
	command string
}

func (e notLoggedInError) Error() string {
	return fmt.Sprintf("not logged in: run `bookclub login` before `%s`", e.command)
}

func errNotLoggedIn(command string) error {
	return notLoggedInError{command: command}
}

// actionError pairs the message shown to the user with the API failure behind it.
type actionError struct {
	msg string
	err error
}

func (e actionError) Error() string {
	return fmt.Sprintf("%s (%v)", e.msg, e.err)
}

func (e actionError) Unwrap() error { return e.err }

func actionFailed(msg string, err error) error {
	return actionError{msg: msg, err: err}
}
