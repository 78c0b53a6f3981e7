// Package rollup derives per-person and per-group counts from the unified
// task list for sidebars and KPI cards.
package rollup

import (
	"sort"
	"time"

	"github.com/julianstephens/mantenix/internal/aggregate"
	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/models"
)

type Options struct {
	// Pinned names always get a record, even with zero tasks.
	Pinned []string
	// GroupID restricts counting to one task group. Empty counts every group.
	GroupID  string
	Now      time.Time
	Location *time.Location
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Compute returns one record per assignee in tasks, plus every pinned name and
// the Unassigned bucket. Pass tasks with the status overlay already applied.
func Compute(tasks []models.UnifiedTask, opts Options) []models.PersonStats {
	now, loc := opts.now(), opts.location()

	pinned := make(map[string]bool, len(opts.Pinned))
	for _, name := range opts.Pinned {
		if name != "" {
			pinned[name] = true
		}
	}

	byName := make(map[string]*models.PersonStats)
	get := func(name string) *models.PersonStats {
		ps, ok := byName[name]
		if !ok {
			ps = &models.PersonStats{Name: name, Pinned: pinned[name]}
			byName[name] = ps
		}
		return ps
	}

	get(constants.UnassignedName)
	for name := range pinned {
		get(name)
	}

	for _, t := range tasks {
		if opts.GroupID != "" && string(t.GroupID) != opts.GroupID {
			continue
		}
		name := t.AssigneeName
		if name == "" {
			name = constants.UnassignedName
		}
		count(get(name), t, now, loc)
	}

	out := make([]models.PersonStats, 0, len(byName))
	for _, ps := range byName {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func count(ps *models.PersonStats, t models.UnifiedTask, now time.Time, loc *time.Location) {
	ps.TotalTasks++
	switch t.Status {
	case models.StatusPending:
		ps.PendingTasks++
	case models.StatusInProgress:
		ps.InProgressTasks++
	}
	if aggregate.IsOverdue(t, now) {
		ps.OverdueTasks++
	}
	if aggregate.IsCompletedToday(t, now, loc) {
		ps.CompletedToday++
	}
}

// less orders Unassigned last, pinned before unpinned, then by overdue and
// pending counts descending, then by name.
func less(a, b models.PersonStats) bool {
	aUn, bUn := a.Name == constants.UnassignedName, b.Name == constants.UnassignedName
	if aUn != bUn {
		return bUn
	}
	if a.Pinned != b.Pinned {
		return a.Pinned
	}
	if a.OverdueTasks != b.OverdueTasks {
		return a.OverdueTasks > b.OverdueTasks
	}
	if a.PendingTasks != b.PendingTasks {
		return a.PendingTasks > b.PendingTasks
	}
	return a.Name < b.Name
}

// Summary holds the KPI card totals.
type Summary struct {
	People         int `json:"people"`
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"inProgress"`
	Overdue        int `json:"overdue"`
	CompletedToday int `json:"completedToday"`
}

// Summarize totals a rollup. People counts records with at least one task.
func Summarize(stats []models.PersonStats) Summary {
	var s Summary
	for _, ps := range stats {
		if ps.TotalTasks > 0 {
			s.People++
		}
		s.Total += ps.TotalTasks
		s.Pending += ps.PendingTasks
		s.InProgress += ps.InProgressTasks
		s.Overdue += ps.OverdueTasks
		s.CompletedToday += ps.CompletedToday
	}
	return s
}

// GroupStats is the rollup for one task group.
type GroupStats struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalTasks     int    `json:"totalTasks"`
	PendingTasks   int    `json:"pendingTasks"`
	InProgress     int    `json:"inProgressTasks"`
	OverdueTasks   int    `json:"overdueTasks"`
	CompletedToday int    `json:"completedToday"`
}

// ByGroup counts tasks per known group in the order groups are given. Tasks
// without a matching group are not counted.
func ByGroup(tasks []models.UnifiedTask, groups []models.TaskGroup, now time.Time, loc *time.Location) []GroupStats {
	if loc == nil {
		loc = time.Local
	}
	out := make([]GroupStats, len(groups))
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		out[i] = GroupStats{ID: g.ID.String(), Name: g.Name}
		index[g.ID.String()] = i
	}
	for _, t := range tasks {
		i, ok := index[string(t.GroupID)]
		if !ok || t.GroupID == "" {
			continue
		}
		gs := &out[i]
		gs.TotalTasks++
		switch t.Status {
		case models.StatusPending:
			gs.PendingTasks++
		case models.StatusInProgress:
			gs.InProgress++
		}
		if aggregate.IsOverdue(t, now) {
			gs.OverdueTasks++
		}
		if aggregate.IsCompletedToday(t, now, loc) {
			gs.CompletedToday++
		}
	}
	return out
}
