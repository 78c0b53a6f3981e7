package events

import (
	"time"

	"github.com/julianstephens/mantenix/internal/models"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	TaskKey() string
}

// Topic constants
const (
	TopicStatus = "status"
	TopicData   = "data"
)

// Event type constants
const (
	EventTypeStatusOptimistic = "status.optimistic"
	EventTypeStatusConfirmed  = "status.confirmed"
	EventTypeStatusRolledBack = "status.rolled_back"
	EventTypeStatusSettled    = "status.settled"
	EventTypeDataRefreshed    = "data.refreshed"
)

// StatusOptimisticEvent is published when a provisional status enters the overlay.
type StatusOptimisticEvent struct {
	Key        string
	Status     models.Status
	Generation uint64
	Timestamp  time.Time
}

func (e StatusOptimisticEvent) EventType() string { return EventTypeStatusOptimistic }
func (e StatusOptimisticEvent) TaskKey() string   { return e.Key }

// StatusConfirmedEvent is published when the backend accepted the change and
// the settle window has started.
type StatusConfirmedEvent struct {
	Key        string
	Status     models.Status
	Generation uint64
	Timestamp  time.Time
}

func (e StatusConfirmedEvent) EventType() string { return EventTypeStatusConfirmed }
func (e StatusConfirmedEvent) TaskKey() string   { return e.Key }

// StatusRolledBackEvent is published when the backend rejected the change.
type StatusRolledBackEvent struct {
	Key        string
	Status     models.Status
	Generation uint64
	Err        error
	Timestamp  time.Time
}

func (e StatusRolledBackEvent) EventType() string { return EventTypeStatusRolledBack }
func (e StatusRolledBackEvent) TaskKey() string   { return e.Key }

// StatusSettledEvent is published when the overlay entry is dropped after the
// settle window.
type StatusSettledEvent struct {
	Key        string
	Generation uint64
	Timestamp  time.Time
}

func (e StatusSettledEvent) EventType() string { return EventTypeStatusSettled }
func (e StatusSettledEvent) TaskKey() string   { return e.Key }

// DataRefreshedEvent is published after a session refetched both sources.
type DataRefreshedEvent struct {
	Agenda    int
	Regular   int
	Timestamp time.Time
}

func (e DataRefreshedEvent) EventType() string { return EventTypeDataRefreshed }
func (e DataRefreshedEvent) TaskKey() string   { return "" }
