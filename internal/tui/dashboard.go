package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/api"
	"taskdash/internal/ui"
)

type dashTab int

const (
	tabTasks dashTab = iota
	tabNotes
)

// dashModel is the protected content: task and note tabs behind the
// gate, plus the logout affordance (handled one level up, where the
// session lives).
type dashModel struct {
	tab   dashTab
	tasks taskListModel
	notes noteListModel

	width, height int
}

func newDashModel(client *api.Client) dashModel {
	tasks := newTaskListModel(client)
	notes := newNoteListModel(client)
	tasks.loading = true
	notes.loading = true
	return dashModel{tasks: tasks, notes: notes}
}

// loadAll kicks off the initial fetch of both collections.
func (m dashModel) loadAll() tea.Cmd {
	return tea.Batch(m.tasks.load(), m.notes.load())
}

func (m dashModel) setSize(w, h int) dashModel {
	m.width, m.height = w, h
	listHeight := h - 8
	if listHeight < 3 {
		listHeight = 3
	}
	m.tasks.list.SetSize(w-4, listHeight)
	m.notes.list.SetSize(w-4, listHeight)
	return m
}

// showProgress hides the header bar while a completion filter is
// active: the counts then cover only the filtered page and would
// misstate overall progress.
func (m dashModel) showProgress() bool {
	return m.tasks.filter == nil && m.tasks.total > 0
}

// busy is true while the active tab owns the keyboard (inline input or
// list filter), so tab switching and quit stay out of the way.
func (m dashModel) busy() bool {
	if m.tab == tabTasks {
		return m.tasks.busy()
	}
	return m.notes.busy()
}

func (m dashModel) Update(msg tea.Msg) (dashModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		var cmd tea.Cmd
		m.tasks, cmd = m.tasks.Update(msg)
		return m, cmd
	case notesLoadedMsg:
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if !m.busy() {
			switch msg.String() {
			case "tab":
				if m.tab == tabTasks {
					m.tab = tabNotes
				} else {
					m.tab = tabTasks
				}
				return m, nil
			case "1":
				m.tab = tabTasks
				return m, nil
			case "2":
				m.tab = tabNotes
				return m, nil
			case "q":
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	if m.tab == tabTasks {
		m.tasks, cmd = m.tasks.Update(msg)
	} else {
		m.notes, cmd = m.notes.Update(msg)
	}
	return m, cmd
}

func (m dashModel) View() string {
	tabTasksLabel := "1 Tasks"
	tabNotesLabel := "2 Notes"
	if m.tab == tabTasks {
		tabTasksLabel = ui.SelectedStyle.Render(tabTasksLabel)
		tabNotesLabel = ui.MutedStyle.Render(tabNotesLabel)
	} else {
		tabTasksLabel = ui.MutedStyle.Render(tabTasksLabel)
		tabNotesLabel = ui.SelectedStyle.Render(tabNotesLabel)
	}
	header := ui.TitleStyle.Render("taskdash") + "  " + tabTasksLabel + "  " + tabNotesLabel
	if m.showProgress() {
		header += "  " + ui.MutedStyle.Render(ui.ProgressBar(m.tasks.done, m.tasks.total, 20))
	}

	var content string
	if m.tab == tabTasks {
		content = m.tasks.View()
	} else {
		content = m.notes.View()
	}

	help := ui.HelpStyle.Render("tab switch • ctrl+l log out • q quit")
	return ui.PanelString(header + "\n\n" + content + "\n" + help)
}
