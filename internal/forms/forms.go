// Package forms validates page and auth forms before anything is sent to the server.
//
// Validation is all-or-nothing: any failing field yields one combined, user-facing message.
package forms

import (
	"errors"
	"strings"
	"sync"
	"time"

	"bookclub-cli/internal/model"

	"github.com/go-playground/validator/v10"
)

// Messages shown when a form is incomplete.
const (
	MsgSelectBook       = "Please select a book first."
	MsgFillAllFields    = "Please fill out all fields."
	MsgBookAndNote      = "Please select a book and enter a note."
	MsgPasswordMismatch = "Passwords do not match"
	MsgBadStartTime     = "Start time must look like YYYY-MM-DD HH:MM."
)

// Messages shown when the server rejects a submitted form.
const (
	MsgAddTodoFailed    = "Failed to add book to Todo. Please try again."
	MsgAddMeetingFailed = "Failed to add meeting. Please try again."
	MsgAddNoteFailed    = "Failed to add note. Please try again."
	MsgLoginFailed      = "Login failed. Please check your credentials and try again."
	MsgRegisterFailed   = "Registration failed. Please try again."
)

// ValidationError is a local validation failure. Fields lists the offending struct fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

type TodoForm struct {
	Book *model.Book `validate:"required"`
}

type MeetingForm struct {
	Book        *model.Book `validate:"required"`
	Description string      `validate:"required"`
	// Start is the start time as typed; see ParseStartTime.
	Start    string `validate:"required"`
	Duration string `validate:"required"`

	// Location reads a zoneless Start; nil means time.Local.
	Location *time.Location `validate:"-"`
	// StartTime is Start in UTC, set by a successful Validate.
	StartTime time.Time `validate:"-"`
}

type NoteForm struct {
	Book *model.Book `validate:"required"`
	Note string      `validate:"required"`
}

type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type RegisterForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Confirm  string `validate:"required,eqfield=Password"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func v() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func (f *TodoForm) Validate() error {
	return check(f, MsgSelectBook, nil)
}

// Validate reports missing fields before an unparseable start time.
func (f *MeetingForm) Validate() error {
	f.Description = strings.TrimSpace(f.Description)
	f.Start = strings.TrimSpace(f.Start)
	f.Duration = strings.TrimSpace(f.Duration)
	if err := check(f, MsgFillAllFields, nil); err != nil {
		return err
	}
	ts, err := ParseStartTime(f.Start, f.Location)
	if err != nil {
		return &ValidationError{Message: MsgBadStartTime, Fields: []string{"Start"}}
	}
	f.StartTime = ts
	return nil
}

func (f *NoteForm) Validate() error {
	f.Note = strings.TrimSpace(f.Note)
	return check(f, MsgBookAndNote, nil)
}

func (f *LoginForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return check(f, MsgFillAllFields, nil)
}

// Validate reports a missing field before a password mismatch.
func (f *RegisterForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return check(f, MsgFillAllFields, map[string]string{"eqfield": MsgPasswordMismatch})
}

// check runs the struct tags. byTag overrides the message when every failure has that tag.
func check(form any, msg string, byTag map[string]string) error {
	err := v().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Message: msg}
	tags := map[string]bool{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fe.Field())
		tags[fe.Tag()] = true
	}
	if len(tags) == 1 {
		for tag := range tags {
			if m, ok := byTag[tag]; ok {
				out.Message = m
			}
		}
	}
	return out
}
