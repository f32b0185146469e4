package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/api"
	"taskdash/internal/model"
	"taskdash/internal/ui"
)

type tasksLoadedMsg struct {
	items []model.Task
	err   error
}

// taskItem adapts a Task to bubbles/list.Item.
type taskItem struct {
	task model.Task
}

func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string { return i.task.Description }
func (i taskItem) FilterValue() string { return i.task.Title }

// taskDelegate renders one task per line: checkbox, title, priority
// chip, then muted extras.
type taskDelegate struct{}

func (d taskDelegate) Height() int                               { return 1 }
func (d taskDelegate) Spacing() int                              { return 0 }
func (d taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(taskItem)
	t := it.task

	box := ui.MutedStyle.Render(ui.BoxUnchecked)
	title := t.Title
	if t.Completed {
		box = ui.SuccessStyle.Render(ui.BoxChecked)
		title = ui.DoneStyle.Render(title)
	}
	chip := ui.PriorityStyle(t.Priority).Render("[" + string(t.Priority) + "]")

	extras := ""
	if t.DueDate != nil {
		extras += " " + ui.MutedStyle.Render("due "+t.DueDate.Local().Format("2006-01-02"))
	}
	if t.Description != "" {
		extras += " " + ui.MutedStyle.Render(t.Description)
	}

	line := fmt.Sprintf("%s %s %s%s", box, title, chip, extras)
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type taskListModel struct {
	api *api.Client

	list    list.Model
	loading bool
	status  string

	done, total int

	// nil: all, true: done only, false: pending only
	filter *bool

	// Inline add/edit walk one shared text input through the task
	// fields, one field per enter.
	form *taskForm
	ti   textinput.Model
}

// taskForm accumulates field values while the inline input walks
// title, description, due date. nil form means the list owns the keys.
type taskForm struct {
	editing bool
	id      int
	field   int
	title   string
	desc    string
	due     string
}

const (
	taskFieldTitle = iota
	taskFieldDesc
	taskFieldDue
)

func taskFieldLabel(f int) string {
	switch f {
	case taskFieldDesc:
		return "description"
	case taskFieldDue:
		return "due date"
	}
	return "title"
}

func newTaskListModel(client *api.Client) taskListModel {
	l := list.New(nil, taskDelegate{}, 0, 0)
	l.Title = "Tasks"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	binds := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "filter done")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return binds }
	l.AdditionalFullHelpKeys = func() []key.Binding { return binds }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := taskListModel{api: client, list: l, ti: ti}
	return m
}

// load fetches the single fixed page, replacing local state entirely.
func (m taskListModel) load() tea.Cmd {
	client, filter := m.api, m.filter
	return func() tea.Msg {
		items, err := client.ListTasks(context.Background(), 0, api.DefaultPageSize, filter)
		return tasksLoadedMsg{items: items, err: err}
	}
}

// mutateAndReload runs one mutation and then refetches the collection
// in the same command, so the reload always observes the mutation's
// outcome.
func (m taskListModel) mutateAndReload(mut func(context.Context) error) tea.Cmd {
	client, filter := m.api, m.filter
	return func() tea.Msg {
		ctx := context.Background()
		if err := mut(ctx); err != nil {
			return tasksLoadedMsg{err: err}
		}
		items, err := client.ListTasks(ctx, 0, api.DefaultPageSize, filter)
		return tasksLoadedMsg{items: items, err: err}
	}
}

// busy reports whether the inline input or the list filter owns the
// keyboard.
func (m taskListModel) busy() bool {
	return m.form != nil || m.list.FilterState() == list.Filtering
}

func (m taskListModel) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m taskListModel) Update(msg tea.Msg) (taskListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorText(msg.err)
			return m, nil
		}
		m.status = ""
		items := make([]list.Item, 0, len(msg.items))
		done := 0
		for _, t := range msg.items {
			if t.Completed {
				done++
			}
			items = append(items, taskItem{task: t})
		}
		m.done, m.total = done, len(msg.items)
		m.list.SetItems(items)
		m.list.Title = fmt.Sprintf("Tasks  %s %d  %s %d",
			ui.SuccessStyle.Render("✔"), done,
			ui.PendingStyle.Render("•"), len(msg.items)-done)
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
			m.form = &taskForm{}
			m.status = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New task title..."
			m.ti.Focus()
			return m, textinput.Blink
		case "e":
			if t, ok := m.selected(); ok {
				f := &taskForm{editing: true, id: t.ID, desc: t.Description}
				if t.DueDate != nil {
					f.due = t.DueDate.Local().Format("2006-01-02")
				}
				m.form = f
				m.status = ""
				m.ti.SetValue(t.Title)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit task title..."
				m.ti.Focus()
				return m, textinput.Blink
			}
			return m, nil
		case " ":
			if t, ok := m.selected(); ok {
				m.loading = true
				id, next := t.ID, !t.Completed
				return m, m.mutateAndReload(func(ctx context.Context) error {
					_, err := m.api.UpdateTask(ctx, id, model.TaskUpdate{Completed: model.Ptr(next)})
					return err
				})
			}
			return m, nil
		case "p":
			if t, ok := m.selected(); ok {
				m.loading = true
				id, next := t.ID, t.Priority.Next()
				return m, m.mutateAndReload(func(ctx context.Context) error {
					_, err := m.api.UpdateTask(ctx, id, model.TaskUpdate{Priority: model.Ptr(next)})
					return err
				})
			}
			return m, nil
		case "d":
			if t, ok := m.selected(); ok {
				m.loading = true
				id := t.ID
				return m, m.mutateAndReload(func(ctx context.Context) error {
					return m.api.DeleteTask(ctx, id)
				})
			}
			return m, nil
		case "c":
			m.filter = cycleFilter(m.filter)
			m.loading = true
			return m, m.load()
		case "r":
			m.loading = true
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m taskListModel) updateInput(msg tea.KeyMsg) (taskListModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		val := strings.TrimSpace(m.ti.Value())
		switch m.form.field {
		case taskFieldTitle:
			if val == "" {
				m.status = "title cannot be empty"
				return m, nil
			}
			m.form.title = val
			m.form.field = taskFieldDesc
			m.status = ""
			m.ti.SetValue(m.form.desc)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Description (optional)..."
			return m, nil
		case taskFieldDesc:
			m.form.desc = val
			m.form.field = taskFieldDue
			m.ti.SetValue(m.form.due)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Due date YYYY-MM-DD (optional)..."
			return m, nil
		}

		var due *time.Time
		if val != "" {
			d, err := time.ParseInLocation("2006-01-02", val, time.Local)
			if err != nil {
				m.status = "due date must be YYYY-MM-DD"
				return m, nil
			}
			due = &d
		}
		f := *m.form
		m.form = nil
		m.status = ""
		m.ti.SetValue("")
		m.ti.Blur()
		m.loading = true
		if f.editing {
			upd := model.TaskUpdate{
				Title:       model.Ptr(f.title),
				Description: model.Ptr(f.desc),
				DueDate:     due,
			}
			return m, m.mutateAndReload(func(ctx context.Context) error {
				_, err := m.api.UpdateTask(ctx, f.id, upd)
				return err
			})
		}
		in := model.TaskCreate{
			Title:       f.title,
			Description: f.desc,
			Priority:    model.PriorityMedium,
			DueDate:     due,
		}
		return m, m.mutateAndReload(func(ctx context.Context) error {
			_, err := m.api.CreateTask(ctx, in)
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

func (m taskListModel) View() string {
	content := m.list.View()
	if m.form != nil {
		title := "Add task"
		if m.form.editing {
			title = "Edit task"
		}
		title += " — " + taskFieldLabel(m.form.field)
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

// cycleFilter walks all → pending → done → all.
func cycleFilter(f *bool) *bool {
	switch {
	case f == nil:
		return model.Ptr(false)
	case !*f:
		return model.Ptr(true)
	default:
		return nil
	}
}
