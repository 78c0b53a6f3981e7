package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/tui/components/board"
	"github.com/julianstephens/mantenix/internal/tui/components/people"
	"github.com/julianstephens/mantenix/internal/tui/components/tasklist"
)

var errEmptyName = errors.New("name cannot be empty")

var originCycle = []string{constants.FilterAll, string(models.OriginAgenda), string(models.OriginRegular)}

func next(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func statusCycle() []string {
	out := []string{""}
	for _, s := range models.Statuses {
		out = append(out, string(s))
	}
	return out
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := max(msg.Height-8, 1)
		m.taskList.SetSize(msg.Width-4, h)
		m.board.SetSize(msg.Width-4, h)
		return m, nil

	case refreshedMsg:
		m.loading = false
		m.rebuild()
		return m, nil

	case statusChangedMsg:
		m.rebuild()
		if msg.err != nil {
			return m, nil
		}
		// Refetch so the backend's record replaces the locally confirmed one.
		return m, m.refresh()

	case eventMsg:
		m.rebuild()
		return m, m.waitForEvent()

	case tickMsg:
		return m, tick()

	case tasklist.ChangeStatusMsg:
		return m, m.changeStatus(msg)

	case people.SelectMsg:
		if err := m.sess.SetSelectedPerson(msg.Name); err != nil {
			m.toasts.Failure("Could not save selection", err)
		}
		m.filter.Person = msg.Name
		m.rebuild()
		return m, nil

	case people.TogglePinMsg:
		pinned, err := m.sess.TogglePin(msg.Name)
		switch {
		case err != nil:
			m.toasts.Failure("Could not update pinned people", err)
		case pinned:
			m.toasts.Success("Pinned " + msg.Name)
		default:
			m.toasts.Success("Unpinned " + msg.Name)
		}
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		if m.tab == TabList && m.taskList.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.setTab((m.tab + 1) % tabCount)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.setTab((m.tab - 1 + tabCount) % tabCount)
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.refresh()
		case key.Matches(msg, m.keys.Origin):
			m.filter.Origin = next(originCycle, m.filter.Origin)
			if err := m.sess.SetOriginFilter(m.filter.Origin); err != nil {
				m.toasts.Failure("Could not save filter", err)
			}
			m.rebuild()
			return m, nil
		case key.Matches(msg, m.keys.Status):
			m.filter.Status = next(statusCycle(), m.filter.Status)
			m.rebuild()
			return m, nil
		case key.Matches(msg, m.keys.Overdue):
			m.filter.OnlyOverdue = !m.filter.OnlyOverdue
			m.rebuild()
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.filter.OnlyToday = !m.filter.OnlyToday
			m.rebuild()
			return m, nil
		case key.Matches(msg, m.keys.Pin):
			m.openPinForm()
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabList:
		m.taskList, cmd = m.taskList.Update(msg)
	case TabKanban, TabCalendar:
		m.board, cmd = m.board.Update(msg)
	case TabPeople:
		m.people, cmd = m.people.Update(msg)
	}
	return m, cmd
}

func (m *Model) setTab(t Tab) {
	m.tab = t
	switch t {
	case TabKanban:
		m.board.SetMode(board.ModeKanban)
	case TabCalendar:
		m.board.SetMode(board.ModeCalendar)
	}
	if mode := t.viewMode(); mode != "" {
		if err := m.sess.SetViewMode(mode); err != nil {
			m.toasts.Failure("Could not save view mode", err)
		}
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		m.form = nil
		m.pinForm = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		name := m.pinForm.Name
		m.form = nil
		m.pinForm = nil
		if err := m.sess.Pin(name); err != nil {
			m.toasts.Failure("Could not pin "+name, err)
		} else {
			m.toasts.Success("Pinned " + name)
		}
		m.rebuild()
		return m, nil
	case huh.StateAborted:
		m.form = nil
		m.pinForm = nil
		return m, nil
	}
	return m, cmd
}
