package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/api"
	"taskdash/internal/nav"
	"taskdash/internal/session"
)

// gotoPageMsg asks the root model for a page change. The nav gate
// still has the final word.
type gotoPageMsg struct {
	page nav.Page
	note string // optional status to show on the target page
}

func gotoPage(p nav.Page, note string) tea.Cmd {
	return func() tea.Msg { return gotoPageMsg{page: p, note: note} }
}

// App is the root Bubble Tea model. It owns the session and decides,
// through nav.Next, which sub-model renders. The page is recomputed
// before every render, never during it.
type App struct {
	sess *session.Session
	api  *api.Client

	page     nav.Page
	login    loginModel
	register registerModel
	dash     dashModel

	width, height int
}

// NewApp wires the session and client into the view tree. Startup
// requests the dashboard; the gate sends unauthenticated users to
// login.
func NewApp(sess *session.Session, client *api.Client) App {
	return App{
		sess:     sess,
		api:      client,
		page:     nav.Next(sess.IsAuthenticated(), nav.Dashboard),
		login:    newLoginModel(sess, client),
		register: newRegisterModel(client),
		dash:     newDashModel(client),
	}
}

func (a App) Init() tea.Cmd {
	if a.page == nav.Dashboard {
		return a.dash.loadAll()
	}
	return a.login.focusCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Not while an inline input or the list filter owns the keys.
		if msg.String() == "ctrl+l" && a.page == nav.Dashboard && !a.dash.busy() {
			if err := a.sess.Logout(); err != nil {
				a.dash.tasks.status = err.Error()
				return a, nil
			}
			return a.transition(nav.Login, "")
		}
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.dash = a.dash.setSize(msg.Width, msg.Height)
	case gotoPageMsg:
		return a.transition(msg.page, msg.note)
	}

	var cmd tea.Cmd
	switch a.page {
	case nav.Login:
		a.login, cmd = a.login.Update(msg)
	case nav.Register:
		a.register, cmd = a.register.Update(msg)
	case nav.Dashboard:
		a.dash, cmd = a.dash.Update(msg)
	}

	// A 401 hook may have logged the session out mid-command; settle
	// the page before the next render.
	if next := nav.Next(a.sess.IsAuthenticated(), a.page); next != a.page {
		next2, cmd2 := a.transition(next, "")
		return next2, tea.Batch(cmd, cmd2)
	}
	return a, cmd
}

// transition moves to the gated target page and primes it.
func (a App) transition(requested nav.Page, note string) (tea.Model, tea.Cmd) {
	target := nav.Next(a.sess.IsAuthenticated(), requested)
	prev := a.page
	a.page = target
	if target == prev {
		return a, nil
	}
	switch target {
	case nav.Dashboard:
		a.dash = newDashModel(a.api).setSize(a.width, a.height)
		return a, a.dash.loadAll()
	case nav.Login:
		a.login = newLoginModel(a.sess, a.api)
		a.login.status = note
		return a, a.login.focusCmd()
	case nav.Register:
		a.register = newRegisterModel(a.api)
		return a, a.register.focusCmd()
	}
	return a, nil
}

func (a App) View() string {
	switch a.page {
	case nav.Register:
		return a.register.View()
	case nav.Dashboard:
		return a.dash.View()
	default:
		return a.login.View()
	}
}

// Run starts the interactive dashboard.
func Run(sess *session.Session, client *api.Client) error {
	p := tea.NewProgram(NewApp(sess, client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
