// Package board renders the kanban and calendar views of the unified set.
package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/mantenix/internal/aggregate"
	"github.com/julianstephens/mantenix/internal/models"
)

type Mode int

const (
	ModeKanban Mode = iota
	ModeCalendar
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

type Model struct {
	viewport viewport.Model
	mode     Mode
	tasks    []models.UnifiedTask
	now      time.Time
	loc      *time.Location
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		loc:      time.Local,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.tasks) == 0 {
		return "No tasks match the current filters."
	}
	return m.viewport.View()
}

func (m Model) Mode() Mode {
	return m.mode
}

func (m *Model) SetMode(mode Mode) {
	m.mode = mode
	m.Render()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetTasks(tasks []models.UnifiedTask, now time.Time, loc *time.Location) {
	m.tasks = tasks
	m.now = now
	if loc != nil {
		m.loc = loc
	}
	m.Render()
}

func (m *Model) Render() {
	if m.mode == ModeCalendar {
		m.viewport.SetContent(m.renderCalendar())
		return
	}
	m.viewport.SetContent(m.renderKanban())
}

func (m Model) card(t models.UnifiedTask) string {
	line := fmt.Sprintf("%s %s", t.Priority, t.Title)
	if aggregate.IsOverdue(t, m.now) {
		return overdueStyle.Render("! " + line)
	}
	return cardStyle.Render(line)
}

func (m Model) renderKanban() string {
	cols := aggregate.GroupByStatus(m.tasks)
	width := 24
	if m.width > 0 && len(cols) > 0 {
		if w := m.width/len(cols) - 4; w > 10 {
			width = w
		}
	}

	rendered := make([]string, len(cols))
	for i, col := range cols {
		var b strings.Builder
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", col.Status, len(col.Tasks))))
		for _, t := range col.Tasks {
			b.WriteString("\n")
			b.WriteString(m.card(t))
		}
		rendered[i] = columnStyle.Width(width).Render(b.String())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderCalendar() string {
	days := aggregate.GroupByDay(m.tasks, m.loc)
	if len(days) == 0 {
		return mutedStyle.Render("No dated tasks.")
	}

	var b strings.Builder
	for _, d := range days {
		b.WriteString(headerStyle.Render(d.Date))
		b.WriteString("\n")
		for _, t := range d.Tasks {
			b.WriteString("  ")
			b.WriteString(m.card(t))
			b.WriteString(" ")
			b.WriteString(mutedStyle.Render(string(t.Status)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
