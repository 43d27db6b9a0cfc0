package tui

import (
	"context"
	"errors"

	"bookclub-cli/internal/api"
	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/route"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const msgRegistered = "Registration successful. Please log in."

type authDoneMsg struct {
	mountTag
	err error
}

// credentialsPage is the shared shape of the login and register views: a column of
// text inputs followed by a submit button.
type credentialsPage struct {
	env    pageEnv
	inputs []textinput.Model
	focus  focusRing
	flash  string
	busy   bool
}

func newCredentialsPage(env pageEnv, labels ...string) credentialsPage {
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = label
		in.CharLimit = 128
		if i > 0 {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = glyphs().echo
		}
		inputs[i] = in
	}
	return credentialsPage{env: env, inputs: inputs, focus: focusRing{n: len(labels) + 1}}
}

func (p *credentialsPage) onSubmit() bool { return p.focus.cur == len(p.inputs) }

func (p *credentialsPage) setFocus(i int) tea.Cmd {
	p.focus.cur = i
	var cmd tea.Cmd
	for j := range p.inputs {
		if j == i {
			cmd = p.inputs[j].Focus()
			continue
		}
		p.inputs[j].Blur()
	}
	return cmd
}

// updateKeys moves focus and edits inputs. It reports true when the form should submit.
func (p *credentialsPage) updateKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		return p.setFocus((p.focus.cur + 1) % p.focus.n), false
	case "shift+tab", "up":
		return p.setFocus((p.focus.cur - 1 + p.focus.n) % p.focus.n), false
	case "ctrl+s":
		return nil, true
	case "enter":
		if p.onSubmit() || p.focus.cur == len(p.inputs)-1 {
			return nil, true
		}
		return p.setFocus(p.focus.cur + 1), false
	}
	if p.onSubmit() {
		return nil, false
	}
	var cmd tea.Cmd
	p.inputs[p.focus.cur], cmd = p.inputs[p.focus.cur].Update(msg)
	return cmd, false
}

func (p *credentialsPage) forward(msg tea.Msg) tea.Cmd {
	if p.onSubmit() {
		return nil
	}
	var cmd tea.Cmd
	p.inputs[p.focus.cur], cmd = p.inputs[p.focus.cur].Update(msg)
	return cmd
}

func (p *credentialsPage) view(title string, labels []string, button, footer string) string {
	parts := []string{pageTitle(title)}
	for i, in := range p.inputs {
		parts = append(parts, fieldLabel(labels[i], p.focus.cur == i)+"\n"+in.View())
	}
	parts = append(parts,
		submitButton(button, p.onSubmit()),
		flashLine(p.flash),
		styleMuted().Render(footer),
	)
	return joinSections(parts...)
}

func (p *credentialsPage) setFlash(err error) {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		p.flash = verr.Message
	}
}

type loginPage struct {
	credentialsPage
}

var loginLabels = []string{"Username", "Password"}

func newLoginPage(env pageEnv) *loginPage {
	return &loginPage{credentialsPage: newCredentialsPage(env, loginLabels...)}
}

func (p *loginPage) Route() route.Route { return route.Login }

func (p *loginPage) Init() tea.Cmd { return p.setFocus(0) }

func (p *loginPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case authDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.env.logger.Error("login failed", zap.Error(msg.err))
			p.flash = forms.MsgLoginFailed
			return nil
		}
		return navigateCmd(route.Home, "")
	case tea.KeyMsg:
		cmd, submit := p.updateKeys(msg)
		if submit {
			return p.submit()
		}
		return cmd
	}
	return p.forward(msg)
}

func (p *loginPage) submit() tea.Cmd {
	if p.busy {
		return nil
	}
	form := forms.LoginForm{Username: p.inputs[0].Value(), Password: p.inputs[1].Value()}
	if err := form.Validate(); err != nil {
		p.setFlash(err)
		return nil
	}
	p.busy = true
	p.flash = ""
	backend, sess, tag := p.env.backend, p.env.sess, p.env.tag()
	return func() tea.Msg {
		ctx := context.Background()
		resp, err := backend.Login(ctx, form.Username, form.Password)
		if err == nil {
			err = sess.Login(ctx, resp.UserID.String(), resp.Key)
		}
		return authDoneMsg{mountTag: tag, err: err}
	}
}

func (p *loginPage) View(int) string {
	return p.view("Login", loginLabels, "Login", "No account? ctrl+r to register")
}

type registerPage struct {
	credentialsPage
}

var registerLabels = []string{"Username", "Password", "Confirm password"}

func newRegisterPage(env pageEnv) *registerPage {
	return &registerPage{credentialsPage: newCredentialsPage(env, registerLabels...)}
}

func (p *registerPage) Route() route.Route { return route.Register }

func (p *registerPage) Init() tea.Cmd { return p.setFocus(0) }

func (p *registerPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case authDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.env.logger.Error("registration failed", zap.Error(msg.err))
			p.flash = forms.MsgRegisterFailed
			return nil
		}
		return navigateCmd(route.Login, msgRegistered)
	case tea.KeyMsg:
		cmd, submit := p.updateKeys(msg)
		if submit {
			return p.submit()
		}
		return cmd
	}
	return p.forward(msg)
}

func (p *registerPage) submit() tea.Cmd {
	if p.busy {
		return nil
	}
	form := forms.RegisterForm{
		Username: p.inputs[0].Value(),
		Password: p.inputs[1].Value(),
		Confirm:  p.inputs[2].Value(),
	}
	if err := form.Validate(); err != nil {
		p.setFlash(err)
		return nil
	}
	p.busy = true
	p.flash = ""
	req := api.RegisterRequest{Username: form.Username, Password1: form.Password, Password2: form.Confirm}
	backend, tag := p.env.backend, p.env.tag()
	return func() tea.Msg {
		return authDoneMsg{mountTag: tag, err: backend.Register(context.Background(), req)}
	}
}

func (p *registerPage) View(int) string {
	return p.view("Register", registerLabels, "Register", "Have an account? ctrl+l to log in")
}
