package tui

import (
	"context"
	"errors"
	"time"

	"bookclub-cli/internal/api"
	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type meetingsLoadedMsg struct {
	mountTag
	meetings []model.Meeting
	err      error
}

type meetingAddedMsg struct {
	mountTag
	err error
}

const (
	meetFocusSearch = iota
	meetFocusDescription
	meetFocusStart
	meetFocusDuration
	meetFocusSubmit
	meetFocusCount
)

type meetingsPage struct {
	env    pageEnv
	search bookSearch
	focus  focusRing

	description textinput.Model
	start       textinput.Model
	duration    textinput.Model

	selected *model.Book
	meetings []model.Meeting
	loading  bool
	flash    string
	busy     bool

	// loc is the zone typed start times are read in.
	loc *time.Location
}

func newMeetingsPage(env pageEnv) *meetingsPage {
	desc := textinput.New()
	desc.Prompt = ""
	desc.Placeholder = "What will we discuss?"
	desc.CharLimit = 500

	start := textinput.New()
	start.Prompt = ""
	start.Placeholder = "YYYY-MM-DD HH:MM"
	start.CharLimit = 32

	dur := textinput.New()
	dur.Prompt = ""
	dur.Placeholder = "HH:MM:SS"
	dur.CharLimit = 32

	return &meetingsPage{
		env:         env,
		search:      newBookSearch(env.owner(route.Meetings), env.backend, env.logger),
		focus:       focusRing{n: meetFocusCount},
		description: desc,
		start:       start,
		duration:    dur,
		loading:     true,
		loc:         time.Local,
	}
}

func (p *meetingsPage) Route() route.Route { return route.Meetings }

func (p *meetingsPage) Init() tea.Cmd {
	return tea.Batch(p.fetch(), p.search.Focus())
}

func (p *meetingsPage) fetch() tea.Cmd {
	backend, tag := p.env.backend, p.env.tag()
	return func() tea.Msg {
		ms, err := backend.ListMeetings(context.Background())
		return meetingsLoadedMsg{mountTag: tag, meetings: ms, err: err}
	}
}

func (p *meetingsPage) input() *textinput.Model {
	switch p.focus.cur {
	case meetFocusDescription:
		return &p.description
	case meetFocusStart:
		return &p.start
	case meetFocusDuration:
		return &p.duration
	}
	return nil
}

func (p *meetingsPage) Update(msg tea.Msg) tea.Cmd {
	if cmd, ok := p.search.Update(msg); ok {
		return cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 4
		p.search.SetWidth(w)
		p.description.Width = w
		return nil

	case BookSelectedMsg:
		if msg.Owner != p.search.owner {
			return nil
		}
		b := msg.Book
		p.selected = &b
		return nil

	case meetingsLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.env.logger.Error("list meetings failed", zap.Error(msg.err))
			return nil
		}
		p.meetings = msg.meetings
		return nil

	case meetingAddedMsg:
		p.busy = false
		if msg.err != nil {
			p.env.logger.Error("add meeting failed", zap.Error(msg.err))
			p.flash = forms.MsgAddMeetingFailed
			return nil
		}
		p.selected = nil
		p.flash = ""
		p.description.Reset()
		p.start.Reset()
		p.duration.Reset()
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
			if p.focus.cur == meetFocusSubmit {
				return p.submit()
			}
			if p.focus.cur != meetFocusSearch {
				return p.setFocus(true)
			}
			return nil
		}
		if in := p.input(); in != nil {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return cmd
		}
		return nil
	}
	cmds := []tea.Cmd{p.search.Forward(msg)}
	if in := p.input(); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (p *meetingsPage) setFocus(forward bool) tea.Cmd {
	if forward {
		p.focus.next()
	} else {
		p.focus.prev()
	}
	p.search.Blur()
	p.description.Blur()
	p.start.Blur()
	p.duration.Blur()
	if p.focus.cur == meetFocusSearch {
		return p.search.Focus()
	}
	if in := p.input(); in != nil {
		return in.Focus()
	}
	return nil
}

func (p *meetingsPage) submit() tea.Cmd {
	if p.busy {
		return nil
	}
	form := forms.MeetingForm{
		Book:        p.selected,
		Description: p.description.Value(),
		Start:       p.start.Value(),
		Duration:    p.duration.Value(),
		Location:    p.loc,
	}
	if err := form.Validate(); err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			p.flash = verr.Message
		}
		return nil
	}

	p.busy = true
	p.flash = ""
	req := api.CreateMeetingRequest{
		BookID:      form.Book.ID,
		Description: form.Description,
		StartTime:   form.StartTime,
		Duration:    form.Duration,
	}
	backend, tag := p.env.backend, p.env.tag()
	return func() tea.Msg {
		return meetingAddedMsg{mountTag: tag, err: backend.CreateMeeting(context.Background(), req)}
	}
}

func (p *meetingsPage) View(width int) string {
	f := p.focus.cur
	form := joinSections(
		pageTitle("Book Club Meetings"),
		fieldLabel("Book", f == meetFocusSearch)+"\n"+p.search.View(),
		selectedLine(p.selected),
		fieldLabel("Description", f == meetFocusDescription)+"\n"+p.description.View(),
		fieldLabel("Start time", f == meetFocusStart)+"\n"+p.start.View(),
		fieldLabel("Duration", f == meetFocusDuration)+"\n"+p.duration.View(),
		submitButton("Add Meeting", f == meetFocusSubmit),
		flashLine(p.flash),
	)

	var list string
	if p.loading && len(p.meetings) == 0 {
		list = styleMuted().Render("Loading...")
	} else {
		rows := make([][]string, 0, len(p.meetings))
		for _, m := range p.meetings {
			rows = append(rows, []string{m.Book.Title, m.Description, meetingStartCell(m), m.Duration})
		}
		list = renderTable([]string{"Book", "Description", "Start Time", "Duration"}, rows, width)
	}
	return joinSections(form, list)
}

func meetingStartCell(m model.Meeting) string {
	ts, ok := m.Start()
	if !ok {
		return m.StartTime
	}
	return ts.Local().Format("Mon Jan 2, 2006 15:04")
}
