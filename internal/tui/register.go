package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/api"
	"taskdash/internal/nav"
	"taskdash/internal/ui"
)

// User-facing auth messages, shown in Persian like the rest of the
// product's account flows.
const (
	msgPasswordMismatch = "رمز عبور و تأیید رمز عبور مطابقت ندارند"
	msgRegistered       = "حساب کاربری با موفقیت ایجاد شد. لطفاً وارد شوید."
)

type registerDoneMsg struct {
	err error
}

// registerForm is the raw form state, confirm included. The confirm
// field is validated locally and stripped before anything is sent.
type registerForm struct {
	Username        string
	Email           string
	FullName        string
	Password        string
	ConfirmPassword string
}

// validate is the client-side guard: it runs before any request and a
// failure means no request is issued at all.
func (f registerForm) validate() string {
	if strings.TrimSpace(f.Username) == "" || strings.TrimSpace(f.Email) == "" ||
		strings.TrimSpace(f.FullName) == "" || f.Password == "" {
		return "all fields are required"
	}
	if f.Password != f.ConfirmPassword {
		return msgPasswordMismatch
	}
	return ""
}

// request builds the wire payload, leaving the confirmation behind.
func (f registerForm) request() api.RegisterRequest {
	return api.RegisterRequest{
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		FullName: strings.TrimSpace(f.FullName),
		Password: f.Password,
	}
}

type registerModel struct {
	api *api.Client

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func newRegisterModel(client *api.Client) registerModel {
	mk := func(placeholder string, secret bool) textinput.Model {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = placeholder
		in.CharLimit = 200
		if secret {
			in.EchoMode = textinput.EchoPassword
		}
		return in
	}
	inputs := []textinput.Model{
		mk("username", false),
		mk("email", false),
		mk("full name", false),
		mk("password", true),
		mk("confirm password", true),
	}
	inputs[0].Focus()
	return registerModel{api: client, inputs: inputs}
}

func (m registerModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (m registerModel) form() registerForm {
	return registerForm{
		Username:        m.inputs[0].Value(),
		Email:           m.inputs[1].Value(),
		FullName:        m.inputs[2].Value(),
		Password:        m.inputs[3].Value(),
		ConfirmPassword: m.inputs[4].Value(),
	}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			return m, nil
		}
		return m, gotoPage(nav.Login, msgRegistered)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.inputs)
			return m.refocus(), nil
		case "shift+tab", "up":
			m.focus = (m.focus + len(m.inputs) - 1) % len(m.inputs)
			return m.refocus(), nil
		case "ctrl+l":
			return m, gotoPage(nav.Login, "")
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m registerModel) refocus() registerModel {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	f := m.form()
	if msg := f.validate(); msg != "" {
		m.errMsg = msg
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	client := m.api
	req := f.request()
	return m, func() tea.Msg {
		_, err := client.Register(context.Background(), req)
		return registerDoneMsg{err: err}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Create account") + "\n\n")
	labels := []string{"Username", "Email", "Full name", "Password", "Confirm password"}
	for i, in := range m.inputs {
		b.WriteString(ui.MutedStyle.Render(labels[i]) + "\n")
		b.WriteString(in.View() + "\n")
	}
	if m.submitting {
		b.WriteString("\n" + ui.MutedStyle.Render("creating account..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n" + ui.ErrorStyle.Render(m.errMsg))
	}
	b.WriteString("\n\n" + ui.HelpStyle.Render("enter create • ctrl+l back to sign in • ctrl+c quit"))
	return ui.PanelString(b.String())
}
