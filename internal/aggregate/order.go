package aggregate

import (
	"sort"
	"time"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/utils"
)

// SortByPriorityThenDue orders tasks in place: most pressing priority first,
// then earliest due date, with undated tasks after dated ones. Equal keys keep
// their input order.
func SortByPriorityThenDue(tasks []models.UnifiedTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return false
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	})
}

// Column is one kanban column.
type Column struct {
	Status models.Status        `json:"status"`
	Tasks  []models.UnifiedTask `json:"tasks"`
}

// GroupByStatus builds kanban columns in canonical status order, each sorted by
// priority then due date. Tasks with a non-canonical status land in trailing
// columns in first-seen order.
func GroupByStatus(tasks []models.UnifiedTask) []Column {
	index := make(map[models.Status]int, len(models.Statuses))
	cols := make([]Column, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		index[s] = len(cols)
		cols = append(cols, Column{Status: s, Tasks: []models.UnifiedTask{}})
	}
	for _, t := range tasks {
		i, ok := index[t.Status]
		if !ok {
			i = len(cols)
			index[t.Status] = i
			cols = append(cols, Column{Status: t.Status, Tasks: []models.UnifiedTask{}})
		}
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	for i := range cols {
		SortByPriorityThenDue(cols[i].Tasks)
	}
	return cols
}

// Day is one calendar cell.
type Day struct {
	Date  string               `json:"date"`
	Tasks []models.UnifiedTask `json:"tasks"`
}

// GroupByDay places dated tasks on their calendar day in loc, days ascending.
// Tasks without a due date are not placed.
func GroupByDay(tasks []models.UnifiedTask, loc *time.Location) []Day {
	byDate := make(map[string][]models.UnifiedTask)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		key := utils.StartOfDay(*t.DueDate, loc).Format(constants.DateFormat)
		byDate[key] = append(byDate[key], t)
	}
	days := make([]Day, 0, len(byDate))
	for date, ts := range byDate {
		SortByPriorityThenDue(ts)
		days = append(days, Day{Date: date, Tasks: ts})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
