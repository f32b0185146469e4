package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/api"
	"taskdash/internal/model"
	"taskdash/internal/ui"
)

type notesLoadedMsg struct {
	items []model.Note
	err   error
}

type noteItem struct {
	note model.Note
}

func (i noteItem) Title() string       { return i.note.Content }
func (i noteItem) Description() string { return i.note.Title }
func (i noteItem) FilterValue() string { return i.note.Title + " " + i.note.Content }

// noteDelegate renders one note per line: optional bold title, then
// the content, then a muted updated-at stamp.
type noteDelegate struct{}

func (d noteDelegate) Height() int                               { return 1 }
func (d noteDelegate) Spacing() int                              { return 0 }
func (d noteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(noteItem)
	n := it.note

	line := firstLine(n.Content)
	if n.Title != "" {
		line = ui.TitleStyle.Render(n.Title) + " " + line
	}
	line += " " + ui.MutedStyle.Render(n.UpdatedAt.Local().Format("2006-01-02 15:04"))

	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

type noteListModel struct {
	api *api.Client

	list    list.Model
	loading bool
	status  string

	// Inline add/edit walk the shared input through content, then the
	// optional title.
	form *noteForm
	ti   textinput.Model
}

type noteForm struct {
	editing bool
	id      int
	field   int
	content string
	title   string
}

const (
	noteFieldContent = iota
	noteFieldTitle
)

func noteFieldLabel(f int) string {
	if f == noteFieldTitle {
		return "title"
	}
	return "content"
}

func newNoteListModel(client *api.Client) noteListModel {
	l := list.New(nil, noteDelegate{}, 0, 0)
	l.Title = "Notes"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("note", "notes")

	binds := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return binds }
	l.AdditionalFullHelpKeys = func() []key.Binding { return binds }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 2000

	return noteListModel{api: client, list: l, ti: ti}
}

func (m noteListModel) load() tea.Cmd {
	client := m.api
	return func() tea.Msg {
		items, err := client.ListNotes(context.Background(), 0, api.DefaultPageSize)
		return notesLoadedMsg{items: items, err: err}
	}
}

func (m noteListModel) mutateAndReload(mut func(context.Context) error) tea.Cmd {
	client := m.api
	return func() tea.Msg {
		ctx := context.Background()
		if err := mut(ctx); err != nil {
			return notesLoadedMsg{err: err}
		}
		items, err := client.ListNotes(ctx, 0, api.DefaultPageSize)
		return notesLoadedMsg{items: items, err: err}
	}
}

func (m noteListModel) busy() bool {
	return m.form != nil || m.list.FilterState() == list.Filtering
}

func (m noteListModel) selected() (model.Note, bool) {
	it, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		return model.Note{}, false
	}
	return it.note, true
}

func (m noteListModel) Update(msg tea.Msg) (noteListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case notesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorText(msg.err)
			return m, nil
		}
		m.status = ""
		items := make([]list.Item, 0, len(msg.items))
		for _, n := range msg.items {
			items = append(items, noteItem{note: n})
		}
		m.list.SetItems(items)
		m.list.Title = fmt.Sprintf("Notes  %s %d", ui.AccentStyle.Render("Total"), len(msg.items))
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateInput(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "a":
			m.form = &noteForm{}
			m.status = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New note content..."
			m.ti.Focus()
			return m, textinput.Blink
		case "e":
			if n, ok := m.selected(); ok {
				m.form = &noteForm{editing: true, id: n.ID, title: n.Title}
				m.status = ""
				m.ti.SetValue(n.Content)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit note content..."
				m.ti.Focus()
				return m, textinput.Blink
			}
			return m, nil
		case "d":
			if n, ok := m.selected(); ok {
				m.loading = true
				id := n.ID
				return m, m.mutateAndReload(func(ctx context.Context) error {
					return m.api.DeleteNote(ctx, id)
				})
			}
			return m, nil
		case "r":
			m.loading = true
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m noteListModel) updateInput(msg tea.KeyMsg) (noteListModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		val := strings.TrimSpace(m.ti.Value())
		if m.form.field == noteFieldContent {
			if val == "" {
				m.status = "content cannot be empty"
				return m, nil
			}
			m.form.content = val
			m.form.field = noteFieldTitle
			m.status = ""
			m.ti.SetValue(m.form.title)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Title (optional)..."
			return m, nil
		}

		f := *m.form
		f.title = val
		m.form = nil
		m.status = ""
		m.ti.SetValue("")
		m.ti.Blur()
		m.loading = true
		if f.editing {
			upd := model.NoteUpdate{
				Content: model.Ptr(f.content),
				Title:   model.Ptr(f.title),
			}
			return m, m.mutateAndReload(func(ctx context.Context) error {
				_, err := m.api.UpdateNote(ctx, f.id, upd)
				return err
			})
		}
		in := model.NoteCreate{Title: f.title, Content: f.content}
		return m, m.mutateAndReload(func(ctx context.Context) error {
			_, err := m.api.CreateNote(ctx, in)
			return err
		})
	case "esc":
		m.form = nil
		m.ti.SetValue("")
		m.ti.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m noteListModel) View() string {
	content := m.list.View()
	if m.form != nil {
		title := "Add note"
		if m.form.editing {
			title = "Edit note"
		}
		title += " — " + noteFieldLabel(m.form.field)
		content += "\n" + ui.PanelString(title+"\n"+m.ti.View())
	}
	if m.loading {
		content += "\n" + ui.MutedStyle.Render("loading...")
	}
	if m.status != "" {
		content += "\n" + ui.ErrorStyle.Render(m.status)
	}
	return content
}
