// Package aggregate merges adapted tasks from both sources and filters them.
package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/mantenix/internal/adapter"
	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/models"
)

// Filter selects tasks from the unified set. Zero values disable a dimension;
// "all" is accepted as an explicit no-op for Origin, Status and Priority.
// OnlyOverdue and OnlyToday combine with AND semantics.
type Filter struct {
	Origin      string `json:"origin,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Search      string `json:"search,omitempty"`
	OnlyOverdue bool   `json:"onlyOverdue,omitempty"`
	OnlyToday   bool   `json:"onlyToday,omitempty"`
	Person      string `json:"person,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
}

// Result is the filtered task list plus origin counts over the unfiltered set.
type Result struct {
	Tasks  []models.UnifiedTask `json:"tasks"`
	Counts models.Counts        `json:"counts"`
}

func isAll(v string) bool {
	return v == "" || v == constants.FilterAll
}

// Validate rejects filter values outside the canonical vocabularies.
func (f Filter) Validate() error {
	if !isAll(f.Origin) && !models.Origin(f.Origin).IsValid() {
		return fmt.Errorf("unknown origin filter %q", f.Origin)
	}
	if !isAll(f.Status) && !models.Status(f.Status).IsValid() {
		return fmt.Errorf("unknown status filter %q", f.Status)
	}
	if !isAll(f.Priority) && !models.Priority(f.Priority).IsValid() {
		return fmt.Errorf("unknown priority filter %q", f.Priority)
	}
	return nil
}

// Matches reports whether t passes every active filter dimension.
func (f Filter) Matches(t models.UnifiedTask, now time.Time, loc *time.Location) bool {
	if !isAll(f.Origin) && string(t.Origin) != f.Origin {
		return false
	}
	if !isAll(f.Status) && string(t.Status) != f.Status {
		return false
	}
	if !isAll(f.Priority) && string(t.Priority) != f.Priority {
		return false
	}
	if f.Person != "" && t.AssigneeName != f.Person {
		return false
	}
	if f.GroupID != "" && string(t.GroupID) != f.GroupID {
		return false
	}
	if f.OnlyOverdue && !IsOverdue(t, now) {
		return false
	}
	if f.OnlyToday && !IsDueToday(t, now, loc) {
		return false
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		term = strings.ToLower(term)
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	return true
}

// Dedupe drops repeated origin:id keys, keeping the first occurrence.
func Dedupe(tasks []models.UnifiedTask) []models.UnifiedTask {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]models.UnifiedTask, 0, len(tasks))
	for _, t := range tasks {
		key := t.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// CountOrigins counts tasks per origin.
func CountOrigins(tasks []models.UnifiedTask) models.Counts {
	c := models.Counts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Origin {
		case models.OriginAgenda:
			c.Agenda++
		case models.OriginRegular:
			c.Regular++
		}
	}
	return c
}

// Combine adapts and deduplicates both sources. Agenda tasks come first.
func Combine(agenda []models.AgendaTask, regular []models.RegularTask, loc *time.Location) []models.UnifiedTask {
	return Dedupe(adapter.AdaptAll(agenda, regular, loc))
}

// Apply filters an already combined set. Counts cover the whole input so origin
// tabs show totals independent of the other filters.
func Apply(all []models.UnifiedTask, f Filter, now time.Time, loc *time.Location) Result {
	res := Result{
		Tasks:  make([]models.UnifiedTask, 0, len(all)),
		Counts: CountOrigins(all),
	}
	for _, t := range all {
		if f.Matches(t, now, loc) {
			res.Tasks = append(res.Tasks, t)
		}
	}
	return res
}

// Aggregate adapts both sources, merges them and applies f.
func Aggregate(agenda []models.AgendaTask, regular []models.RegularTask, f Filter, now time.Time, loc *time.Location) Result {
	return Apply(Combine(agenda, regular, loc), f, now, loc)
}
