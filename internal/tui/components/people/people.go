// Package people renders the per-assignee sidebar.
package people

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/mantenix/internal/models"
)

// SelectMsg narrows the task views to one person. An empty Name clears it.
type SelectMsg struct {
	Name string
}

// TogglePinMsg pins or unpins a person.
type TogglePinMsg struct {
	Name string
}

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Pin    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "filter by person"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle pin"),
		),
	}
}

type Model struct {
	people   []models.PersonStats
	selected string
	cursor   int
	keys     KeyMap
}

func New() Model {
	return Model{keys: DefaultKeyMap()}
}

func (m *Model) SetPeople(people []models.PersonStats, selected string) {
	m.people = people
	m.selected = selected
	if m.cursor >= len(people) {
		m.cursor = max(len(people)-1, 0)
	}
}

func (m Model) Current() (models.PersonStats, bool) {
	if m.cursor < 0 || m.cursor >= len(m.people) {
		return models.PersonStats{}, false
	}
	return m.people[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, m.keys.Down):
		if m.cursor < len(m.people)-1 {
			m.cursor++
		}
	case key.Matches(km, m.keys.Select):
		if p, ok := m.Current(); ok {
			name := p.Name
			if name == m.selected {
				name = ""
			}
			return m, func() tea.Msg { return SelectMsg{Name: name} }
		}
	case key.Matches(km, m.keys.Pin):
		if p, ok := m.Current(); ok {
			return m, func() tea.Msg { return TogglePinMsg{Name: p.Name} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.people) == 0 {
		return "No people yet."
	}

	var b strings.Builder
	for i, p := range m.people {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		name := p.Name
		if p.Pinned {
			name = "* " + name
		}
		if p.Name == m.selected {
			name = selectedStyle.Render(name)
		}
		stats := statStyle.Render(fmt.Sprintf("%d tasks · %d pending · %d in progress · %d done today",
			p.TotalTasks, p.PendingTasks, p.InProgressTasks, p.CompletedToday))
		if p.OverdueTasks > 0 {
			stats += " " + overdueStyle.Render(fmt.Sprintf("· %d overdue", p.OverdueTasks))
		}
		fmt.Fprintf(&b, "%s%-20s %s\n", prefix, name, stats)
	}
	return b.String()
}
