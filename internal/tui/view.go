package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/mantenix/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.form != nil:
		content = docStyle.Render(m.form.View())
	case m.tab == TabList:
		content = docStyle.Render(m.taskList.View())
	case m.tab == TabPeople:
		content = docStyle.Render(m.viewPeople())
	default:
		content = docStyle.Render(m.board.View())
	}

	parts := []string{m.viewTabs(), m.viewFilters(), content}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	}
	if toasts := m.viewToasts(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewFilters() string {
	c := m.view.Counts
	parts := []string{
		fmt.Sprintf("%d/%d tasks (agenda %d, tasks %d)", len(m.view.Tasks), c.Total, c.Agenda, c.Regular),
	}
	if m.filter.Origin != "" && m.filter.Origin != constants.FilterAll {
		parts = append(parts, "origin:"+m.filter.Origin)
	}
	if m.filter.Status != "" {
		parts = append(parts, "status:"+m.filter.Status)
	}
	if m.filter.Person != "" {
		parts = append(parts, "person:"+m.filter.Person)
	}
	if m.filter.OnlyOverdue {
		parts = append(parts, "overdue")
	}
	if m.filter.OnlyToday {
		parts = append(parts, "today")
	}
	if m.loading {
		parts = append(parts, "loading…")
	}
	return filterStyle.Render(strings.Join(parts, " · "))
}

func (m Model) viewPeople() string {
	s := m.view.Summary
	header := fmt.Sprintf("%d people · %d tasks · %d pending · %d overdue · %d done today",
		len(m.view.People), s.Total, s.Pending, s.Overdue, s.CompletedToday)
	return lipgloss.JoinVertical(lipgloss.Left, filterStyle.Render(header), "", m.people.View())
}

func (m Model) viewToasts() string {
	if m.toasts == nil {
		return ""
	}
	active := m.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, len(active))
	for i, t := range active {
		lines[i] = " " + t.Render()
	}
	return strings.Join(lines, "\n")
}
