package aggregate

import (
	"time"

	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/utils"
)

// IsOverdue reports whether the task's due date has passed and it is still open.
// Instants are compared directly, so the result does not depend on timezone.
// A date-only due date passes when its day ends, not at its midnight.
func IsOverdue(t models.UnifiedTask, now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	deadline := *t.DueDate
	if t.DueAllDay {
		deadline = deadline.AddDate(0, 0, 1)
	}
	return deadline.Before(now) && !t.Status.IsClosed()
}

// IsDueToday reports whether the due date falls on now's calendar day in loc,
// regardless of status.
func IsDueToday(t models.UnifiedTask, now time.Time, loc *time.Location) bool {
	if t.DueDate == nil {
		return false
	}
	return utils.SameDay(*t.DueDate, now, loc)
}

// IsCompletedToday reports whether the task is completed and was completed on
// now's calendar day in loc.
func IsCompletedToday(t models.UnifiedTask, now time.Time, loc *time.Location) bool {
	if t.Status != models.StatusCompleted || t.CompletedAt == nil {
		return false
	}
	return utils.SameDay(*t.CompletedAt, now, loc)
}
