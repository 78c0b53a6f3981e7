// Package adapter turns source-specific task records into unified tasks.
package adapter

import (
	"strings"
	"time"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/utils"
)

// Adapt converts any source record into a unified task. ok is false when the
// record carries no identity and must be left out of the unified set.
func Adapt(src models.Source, loc *time.Location) (models.UnifiedTask, bool) {
	switch rec := src.(type) {
	case *models.AgendaTask:
		return FromAgenda(rec, loc)
	case *models.RegularTask:
		return FromRegular(rec, loc)
	default:
		return models.UnifiedTask{}, false
	}
}

// FromAgenda adapts an agenda task.
func FromAgenda(t *models.AgendaTask, loc *time.Location) (models.UnifiedTask, bool) {
	if t == nil || strings.TrimSpace(string(t.ID)) == "" {
		return models.UnifiedTask{}, false
	}

	u := models.UnifiedTask{
		ID:           t.ID,
		Origin:       models.OriginAgenda,
		Title:        t.Title,
		Description:  t.Description,
		Status:       NormalizeStatus(t.Status),
		Priority:     NormalizePriority(t.Priority),
		AssigneeName: agendaAssignee(t),
		GroupID:      t.GroupID,
		Source:       t,
	}
	fillTimes(&u, t.DueDate, t.CreatedAt, t.CompletedAt, loc)
	return u, true
}

// FromRegular adapts a regular (project) task. The uid stands in for a
// missing id.
func FromRegular(t *models.RegularTask, loc *time.Location) (models.UnifiedTask, bool) {
	if t == nil {
		return models.UnifiedTask{}, false
	}
	id := t.SourceID()
	if strings.TrimSpace(string(id)) == "" {
		return models.UnifiedTask{}, false
	}

	u := models.UnifiedTask{
		ID:           id,
		Origin:       models.OriginRegular,
		Title:        t.Title,
		Description:  t.Description,
		Status:       NormalizeStatus(t.Status),
		Priority:     NormalizePriority(t.Priority),
		AssigneeName: regularAssignee(t),
		GroupID:      t.GroupID,
		Source:       t,
	}
	fillTimes(&u, t.DueDate, t.CreatedAt, t.CompletedAt, loc)
	return u, true
}

// AdaptAll adapts both source lists, agenda tasks first, dropping records
// without identity.
func AdaptAll(agenda []models.AgendaTask, regular []models.RegularTask, loc *time.Location) []models.UnifiedTask {
	out := make([]models.UnifiedTask, 0, len(agenda)+len(regular))
	for i := range agenda {
		u, ok := FromAgenda(&agenda[i], loc)
		if !ok {
			logger.Debug("Dropping agenda task without id", "title", agenda[i].Title)
			continue
		}
		out = append(out, u)
	}
	for i := range regular {
		u, ok := FromRegular(&regular[i], loc)
		if !ok {
			logger.Debug("Dropping regular task without id", "title", regular[i].Title)
			continue
		}
		out = append(out, u)
	}
	return out
}

func fillTimes(u *models.UnifiedTask, due, created, completed string, loc *time.Location) {
	if d, ok := utils.ParseTimestamp(due, loc); ok {
		u.DueDate = &d
		u.DueAllDay = utils.IsDateOnly(due)
	}
	if c, ok := utils.ParseTimestamp(created, loc); ok {
		u.CreatedAt = c
	}
	if c, ok := utils.ParseTimestamp(completed, loc); ok {
		u.CompletedAt = &c
	}
}

func agendaAssignee(t *models.AgendaTask) string {
	if name := strings.TrimSpace(t.AssignedToName); name != "" {
		return name
	}
	if t.AssignedToContact != nil {
		if name := strings.TrimSpace(t.AssignedToContact.Name); name != "" {
			return name
		}
	}
	if t.AssignedToUser != nil {
		if name := strings.TrimSpace(t.AssignedToUser.Name); name != "" {
			return name
		}
	}
	return constants.UnassignedName
}

func regularAssignee(t *models.RegularTask) string {
	if t.AssignedTo != nil {
		if name := strings.TrimSpace(t.AssignedTo.Name); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(t.Assignee); name != "" {
		return name
	}
	return constants.UnassignedName
}
