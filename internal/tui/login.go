package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/api"
	"taskdash/internal/model"
	"taskdash/internal/nav"
	"taskdash/internal/session"
	"taskdash/internal/ui"
)

type loginDoneMsg struct {
	tok *model.Token
	err error
}

type loginModel struct {
	sess *session.Session
	api  *api.Client

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
	status     string
}

func newLoginModel(sess *session.Session, client *api.Client) loginModel {
	username := textinput.New()
	username.Prompt = "> "
	username.Placeholder = "username"
	username.CharLimit = 100

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	username.Focus()
	return loginModel{
		sess:   sess,
		api:    client,
		inputs: []textinput.Model{username, password},
	}
}

func (m loginModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			return m, nil
		}
		if err := m.sess.Login(msg.tok.AccessToken, msg.tok.TokenType); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		return m, gotoPage(nav.Dashboard, "")

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.inputs)
			return m.refocus(), nil
		case "shift+tab", "up":
			m.focus = (m.focus + len(m.inputs) - 1) % len(m.inputs)
			return m.refocus(), nil
		case "ctrl+r":
			return m, gotoPage(nav.Register, "")
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) refocus() loginModel {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	username := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	if username == "" || password == "" {
		m.errMsg = "username and password are required"
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	client := m.api
	return m, func() tea.Msg {
		tok, err := client.Login(context.Background(), username, password)
		return loginDoneMsg{tok: tok, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Sign in") + "\n\n")
	labels := []string{"Username", "Password"}
	for i, in := range m.inputs {
		b.WriteString(ui.MutedStyle.Render(labels[i]) + "\n")
		b.WriteString(in.View() + "\n")
	}
	if m.submitting {
		b.WriteString("\n" + ui.MutedStyle.Render("signing in..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n" + ui.ErrorStyle.Render(m.errMsg))
	}
	if m.status != "" {
		b.WriteString("\n" + ui.SuccessStyle.Render(m.status))
	}
	b.WriteString("\n\n" + ui.HelpStyle.Render("enter sign in • ctrl+r register • ctrl+c quit"))
	return ui.PanelString(b.String())
}

// errorText renders an API error for inline display; server detail
// wins when present.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
