package tasklist

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/mantenix/internal/aggregate"
	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/models"
)

// ChangeStatusMsg asks the parent to move a task to a new status.
type ChangeStatusMsg struct {
	Origin models.Origin
	ID     models.ID
	Status models.Status
}

type Item struct {
	Task models.UnifiedTask
	Now  time.Time
}

func (i Item) Title() string {
	badge := "[T]"
	if i.Task.Origin == models.OriginAgenda {
		badge = "[A]"
	}
	return badge + " " + i.Task.Title
}

func (i Item) Description() string {
	parts := []string{string(i.Task.Status), string(i.Task.Priority)}
	if i.Task.AssigneeName != "" {
		parts = append(parts, i.Task.AssigneeName)
	}
	if i.Task.DueDate != nil {
		due := "due " + i.Task.DueDate.Format(constants.DateFormat)
		if aggregate.IsOverdue(i.Task, i.Now) {
			due += " (overdue)"
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Task.Title + " " + i.Task.Description }

type KeyMap struct {
	Complete key.Binding
	Start    key.Binding
	Wait     key.Binding
	Reopen   key.Binding
	Cancel   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Wait: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "waiting"),
		),
		Reopen: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "reopen"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "cancel task"),
		),
	}
}

func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.Complete, k.Start, k.Wait, k.Reopen, k.Cancel}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	return Model{list: l, keys: keys}
}

// SetTasks replaces the items and keeps the cursor on the same task when it
// is still present.
func (m *Model) SetTasks(tasks []models.UnifiedTask, now time.Time) {
	var selected string
	if t, ok := m.Selected(); ok {
		selected = t.Key()
	}

	items := make([]list.Item, len(tasks))
	cursor := 0
	for i, t := range tasks {
		items[i] = Item{Task: t, Now: now}
		if t.Key() == selected {
			cursor = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(cursor)
	}
}

func (m Model) Selected() (models.UnifiedTask, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.UnifiedTask{}, false
	}
	return i.Task, true
}

// Filtering reports whether the list is capturing keys for its own filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		var target models.Status
		switch {
		case key.Matches(msg, m.keys.Complete):
			target = models.StatusCompleted
		case key.Matches(msg, m.keys.Start):
			target = models.StatusInProgress
		case key.Matches(msg, m.keys.Wait):
			target = models.StatusWaiting
		case key.Matches(msg, m.keys.Reopen):
			target = models.StatusPending
		case key.Matches(msg, m.keys.Cancel):
			target = models.StatusCancelled
		}
		if target != "" {
			if t, ok := m.Selected(); ok && t.Status != target {
				return m, func() tea.Msg {
					return ChangeStatusMsg{Origin: t.Origin, ID: t.ID, Status: target}
				}
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No tasks match the current filters."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
