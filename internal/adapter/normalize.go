package adapter

import (
	"strings"

	"github.com/julianstephens/mantenix/internal/models"
)

// statusTable maps every source vocabulary onto the canonical statuses.
// Canonical values map to themselves so normalization is idempotent.
var statusTable = map[string]models.Status{
	"pending":     models.StatusPending,
	"PENDING":     models.StatusPending,
	"todo":        models.StatusPending,
	"TODO":        models.StatusPending,
	"open":        models.StatusPending,
	"pendiente":   models.StatusPending,
	"in_progress": models.StatusInProgress,
	"IN_PROGRESS": models.StatusInProgress,
	"in-progress": models.StatusInProgress,
	"inprogress":  models.StatusInProgress,
	"en_progreso": models.StatusInProgress,
	"waiting":     models.StatusWaiting,
	"WAITING":     models.StatusWaiting,
	"blocked":     models.StatusWaiting,
	"on_hold":     models.StatusWaiting,
	"completed":   models.StatusCompleted,
	"COMPLETED":   models.StatusCompleted,
	"done":        models.StatusCompleted,
	"DONE":        models.StatusCompleted,
	"completada":  models.StatusCompleted,
	"cancelled":   models.StatusCancelled,
	"CANCELLED":   models.StatusCancelled,
	"canceled":    models.StatusCancelled,
	"CANCELED":    models.StatusCancelled,
	"cancelada":   models.StatusCancelled,
}

var priorityTable = map[string]models.Priority{
	"low":      models.PriorityLow,
	"LOW":      models.PriorityLow,
	"baja":     models.PriorityLow,
	"medium":   models.PriorityMedium,
	"MEDIUM":   models.PriorityMedium,
	"normal":   models.PriorityMedium,
	"media":    models.PriorityMedium,
	"high":     models.PriorityHigh,
	"HIGH":     models.PriorityHigh,
	"alta":     models.PriorityHigh,
	"urgent":   models.PriorityUrgent,
	"URGENT":   models.PriorityUrgent,
	"critical": models.PriorityUrgent,
	"urgente":  models.PriorityUrgent,
}

// agendaStatusWire is the agenda API's own vocabulary, used when writing back.
var agendaStatusWire = map[models.Status]string{
	models.StatusPending:    "PENDING",
	models.StatusInProgress: "IN_PROGRESS",
	models.StatusWaiting:    "WAITING",
	models.StatusCompleted:  "COMPLETED",
	models.StatusCancelled:  "CANCELLED",
}

// NormalizeStatus maps a raw status onto the canonical set. An empty value is
// treated as pending; unknown values pass through unchanged.
func NormalizeStatus(raw string) models.Status {
	if raw == "" {
		return models.StatusPending
	}
	if s, ok := statusTable[raw]; ok {
		return s
	}
	return models.Status(raw)
}

// NormalizePriority maps a raw priority onto the canonical set. An empty value
// is treated as medium; unknown values pass through unchanged.
func NormalizePriority(raw string) models.Priority {
	if raw == "" {
		return models.PriorityMedium
	}
	if p, ok := priorityTable[raw]; ok {
		return p
	}
	return models.Priority(raw)
}

// AgendaPriority converts a canonical priority to the agenda API vocabulary.
func AgendaPriority(p models.Priority) string {
	return strings.ToUpper(string(p))
}

// AgendaStatus converts a canonical status to the agenda API vocabulary.
func AgendaStatus(s models.Status) string {
	if wire, ok := agendaStatusWire[s]; ok {
		return wire
	}
	return string(s)
}
