package models

import (
	"encoding/json"
	"time"
)

type Origin string

const (
	OriginAgenda  Origin = "agenda"
	OriginRegular Origin = "regular"
)

// IsValid reports whether o is one of the known task origins.
func (o Origin) IsValid() bool {
	return o == OriginAgenda || o == OriginRegular
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusWaiting    Status = "waiting"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists the canonical statuses in board column order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusWaiting, StatusCompleted, StatusCancelled}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsClosed reports whether the status ends the task's lifecycle.
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) IsValid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Rank orders priorities from most to least pressing. Unknown values rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ID is a backend identifier. The backend emits both numeric and string ids;
// both decode into the same string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Person is an embedded user or contact reference on a task record.
type Person struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Source is the original backend record behind a unified task. It is sealed:
// only *AgendaTask and *RegularTask implement it.
type Source interface {
	Origin() Origin
	SourceID() ID
	isSource()
}

// AgendaTask is a task from the scheduling/reminder subsystem.
type AgendaTask struct {
	ID                ID         `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	Category          string     `json:"category,omitempty"`
	DueDate           string     `json:"dueDate,omitempty"`
	CreatedAt         string     `json:"createdAt,omitempty"`
	CompletedAt       string     `json:"completedAt,omitempty"`
	CompletionNote    string     `json:"completionNote,omitempty"`
	AssignedToName    string     `json:"assignedToName,omitempty"`
	AssignedToContact *Person    `json:"assignedToContact,omitempty"`
	AssignedToUser    *Person    `json:"assignedToUser,omitempty"`
	GroupID           ID         `json:"groupId,omitempty"`
	Channel           string     `json:"channel,omitempty"` // e.g. "discord"
	Reminders         []Reminder `json:"reminders,omitempty"`
}

func (t *AgendaTask) Origin() Origin { return OriginAgenda }
func (t *AgendaTask) SourceID() ID   { return t.ID }
func (t *AgendaTask) isSource()      {}

type Subtask struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Attachment struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RegularTask is a task from the project/task-management subsystem.
type RegularTask struct {
	ID          ID           `json:"id"`
	UID         string       `json:"uid,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	DueDate     string       `json:"dueDate,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	CompletedAt string       `json:"completedAt,omitempty"`
	AssignedTo  *Person      `json:"assignedTo,omitempty"`
	Assignee    string       `json:"assignee,omitempty"`
	GroupID     ID           `json:"groupId,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Subtasks    []Subtask    `json:"subtasks,omitempty"`
	Files       []Attachment `json:"files,omitempty"`
	Progress    int          `json:"progress,omitempty"`
}

func (t *RegularTask) Origin() Origin { return OriginRegular }

// SourceID falls back to the uid when the numeric id is missing.
func (t *RegularTask) SourceID() ID {
	if t.ID != "" {
		return t.ID
	}
	return ID(t.UID)
}
func (t *RegularTask) isSource() {}

// UnifiedTask is the normalized read view over an agenda or regular task.
type UnifiedTask struct {
	ID          ID
	Origin      Origin
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	// DueAllDay marks a date-only due date; the task is due until that day ends.
	DueAllDay    bool
	AssigneeName string
	CreatedAt    time.Time
	CompletedAt  *time.Time
	GroupID      ID
	Source       Source
}

// TaskKey builds the overlay/dedup key for a task.
func TaskKey(origin Origin, id ID) string {
	return string(origin) + ":" + string(id)
}

func (t UnifiedTask) Key() string {
	return TaskKey(t.Origin, t.ID)
}

// AgendaTask returns the original agenda record when the task came from the agenda.
func (t UnifiedTask) AgendaTask() (*AgendaTask, bool) {
	at, ok := t.Source.(*AgendaTask)
	return at, ok
}

// RegularTask returns the original regular record when the task came from the task store.
func (t UnifiedTask) RegularTask() (*RegularTask, bool) {
	rt, ok := t.Source.(*RegularTask)
	return rt, ok
}

type unifiedTaskJSON struct {
	ID                  ID           `json:"id"`
	Origin              Origin       `json:"origin"`
	Title               string       `json:"title"`
	Description         string       `json:"description,omitempty"`
	Status              Status       `json:"status"`
	Priority            Priority     `json:"priority"`
	DueDate             *time.Time   `json:"dueDate,omitempty"`
	DueAllDay           bool         `json:"dueAllDay,omitempty"`
	AssigneeName        string       `json:"assigneeName"`
	CreatedAt           time.Time    `json:"createdAt"`
	CompletedAt         *time.Time   `json:"completedAt,omitempty"`
	GroupID             ID           `json:"groupId,omitempty"`
	OriginalAgendaTask  *AgendaTask  `json:"originalAgendaTask,omitempty"`
	OriginalRegularTask *RegularTask `json:"originalRegularTask,omitempty"`
}

func (t UnifiedTask) MarshalJSON() ([]byte, error) {
	out := unifiedTaskJSON{
		ID:           t.ID,
		Origin:       t.Origin,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		DueAllDay:    t.DueAllDay,
		AssigneeName: t.AssigneeName,
		CreatedAt:    t.CreatedAt,
		CompletedAt:  t.CompletedAt,
		GroupID:      t.GroupID,
	}
	switch src := t.Source.(type) {
	case *AgendaTask:
		out.OriginalAgendaTask = src
	case *RegularTask:
		out.OriginalRegularTask = src
	}
	return json.Marshal(out)
}
