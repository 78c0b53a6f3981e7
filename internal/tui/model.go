// Package tui is the interactive terminal front end over a session.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mantenix/internal/aggregate"
	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/events"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/notifier"
	"github.com/julianstephens/mantenix/internal/session"
	"github.com/julianstephens/mantenix/internal/tui/components/board"
	"github.com/julianstephens/mantenix/internal/tui/components/people"
	"github.com/julianstephens/mantenix/internal/tui/components/tasklist"
)

type Tab int

const (
	TabList Tab = iota
	TabKanban
	TabCalendar
	TabPeople
	tabCount
)

var tabTitles = []string{"List", "Kanban", "Calendar", "People"}

// viewMode maps a tab onto the persisted view mode. People has none.
func (t Tab) viewMode() string {
	switch t {
	case TabKanban:
		return constants.ViewModeKanban
	case TabCalendar:
		return constants.ViewModeCalendar
	case TabList:
		return constants.ViewModeList
	default:
		return ""
	}
}

func tabForViewMode(mode string) Tab {
	switch mode {
	case constants.ViewModeKanban:
		return TabKanban
	case constants.ViewModeCalendar:
		return TabCalendar
	default:
		return TabList
	}
}

const toastTick = time.Second

type (
	refreshedMsg     struct{ err error }
	statusChangedMsg struct {
		key string
		err error
	}
	eventMsg struct{ event events.Event }
	tickMsg  time.Time
)

type pinFormModel struct {
	Name string
}

type Model struct {
	sess     *session.Session
	toasts   *notifier.Queue
	events   <-chan events.Event
	tab      Tab
	keys     KeyMap
	help     help.Model
	taskList tasklist.Model
	board    board.Model
	people   people.Model
	filter   aggregate.Filter
	view     session.View
	form     *huh.Form
	pinForm  *pinFormModel
	loading  bool
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel builds the model from the session's persisted preferences. toasts
// should be the notifier the session and reconciler were built with.
func NewModel(sess *session.Session, toasts *notifier.Queue, bus *events.EventBus) Model {
	if toasts == nil {
		toasts = notifier.NewQueue()
	}
	prefs := sess.Preferences()
	m := Model{
		sess:     sess,
		toasts:   toasts,
		tab:      tabForViewMode(prefs.ViewMode),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		taskList: tasklist.New(0, 0),
		board:    board.New(0, 0),
		people:   people.New(),
		filter:   sess.DefaultFilter(),
		loading:  true,
	}
	if bus != nil {
		m.events = bus.SubscribeAll(64)
	}
	if m.tab == TabCalendar {
		m.board.SetMode(board.ModeCalendar)
	}
	m.rebuild()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.waitForEvent(), tick())
}

func (m Model) refresh() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return refreshedMsg{err: sess.Refresh(context.Background())}
	}
}

func (m Model) changeStatus(msg tasklist.ChangeStatusMsg) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		err := sess.ChangeStatus(context.Background(), msg.Origin, msg.ID, msg.Status)
		return statusChangedMsg{key: models.TaskKey(msg.Origin, msg.ID), err: err}
	}
}

// waitForEvent blocks on the bus so overlay changes redraw the view as they
// happen, including the settle that runs after a confirmed change.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{event: ev}
	}
}

func tick() tea.Cmd {
	return tea.Tick(toastTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// rebuild recomputes the view for the current filter and pushes it into the
// components.
func (m *Model) rebuild() {
	view, err := m.sess.View(m.filter)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.view = view
	m.taskList.SetTasks(view.Tasks, view.GeneratedAt)
	m.board.SetTasks(view.Tasks, view.GeneratedAt, m.sess.Location())
	m.people.SetPeople(view.People, m.filter.Person)
}

func (m *Model) openPinForm() {
	m.pinForm = &pinFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pin person").
				Description("Pinned people stay at the top of the sidebar").
				Value(&m.pinForm.Name).
				Validate(func(s string) error {
					if s == "" {
						return errEmptyName
					}
					return nil
				}),
		),
	)
}
