package rollup

import (
	"testing"
	"time"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/models"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func ts(d time.Time) *time.Time { return &d }

func assigned(id, person string, status models.Status, due *time.Time) models.UnifiedTask {
	return models.UnifiedTask{
		ID:           models.ID(id),
		Origin:       models.OriginRegular,
		Title:        "task " + id,
		Status:       status,
		Priority:     models.PriorityMedium,
		DueDate:      due,
		AssigneeName: person,
	}
}

func find(stats []models.PersonStats, name string) (models.PersonStats, bool) {
	for _, ps := range stats {
		if ps.Name == name {
			return ps, true
		}
	}
	return models.PersonStats{}, false
}

func TestPinnedPersonWithoutTasks(t *testing.T) {
	stats := Compute(nil, Options{Pinned: []string{"Ana"}, Now: now, Location: time.UTC})

	ana, ok := find(stats, "Ana")
	if !ok {
		t.Fatal("pinned person Ana missing from rollup")
	}
	want := models.PersonStats{Name: "Ana", Pinned: true}
	if ana != want {
		t.Errorf("Ana = %+v, want all counts zero", ana)
	}
	if _, ok := find(stats, constants.UnassignedName); !ok {
		t.Error("Unassigned bucket missing")
	}
	if len(stats) != 2 {
		t.Errorf("got %d records, want 2", len(stats))
	}
}

func TestTotalsSumToTaskCount(t *testing.T) {
	yesterday := ts(now.AddDate(0, 0, -1))
	tasks := []models.UnifiedTask{
		assigned("1", "Ana", models.StatusPending, yesterday),
		assigned("2", "Ana", models.StatusCompleted, nil),
		assigned("3", "Luis", models.StatusInProgress, nil),
		assigned("4", constants.UnassignedName, models.StatusWaiting, nil),
		assigned("5", "Marta", models.StatusCancelled, yesterday),
		assigned("6", "Luis", models.StatusPending, nil),
	}

	stats := Compute(tasks, Options{Pinned: []string{"Pedro"}, Now: now, Location: time.UTC})
	sum := 0
	for _, ps := range stats {
		sum += ps.TotalTasks
	}
	if sum != len(tasks) {
		t.Errorf("sum of totalTasks = %d, want %d", sum, len(tasks))
	}

	summary := Summarize(stats)
	if summary.Total != len(tasks) {
		t.Errorf("Summary.Total = %d, want %d", summary.Total, len(tasks))
	}
	if summary.People != 4 {
		t.Errorf("Summary.People = %d, want 4 (Pedro has no tasks)", summary.People)
	}
	if summary.Overdue != 1 {
		t.Errorf("Summary.Overdue = %d, want 1", summary.Overdue)
	}
}

func TestCounts(t *testing.T) {
	yesterday := ts(now.AddDate(0, 0, -1))
	done := assigned("3", "Ana", models.StatusCompleted, yesterday)
	done.CompletedAt = ts(now.Add(-time.Hour))

	tasks := []models.UnifiedTask{
		assigned("1", "Ana", models.StatusPending, yesterday),
		assigned("2", "Ana", models.StatusInProgress, nil),
		done,
		assigned("4", "Ana", models.StatusWaiting, nil),
		assigned("5", "", models.StatusPending, nil),
	}
	stats := Compute(tasks, Options{Now: now, Location: time.UTC})

	ana, _ := find(stats, "Ana")
	want := models.PersonStats{
		Name:            "Ana",
		TotalTasks:      4,
		PendingTasks:    1,
		InProgressTasks: 1,
		OverdueTasks:    1,
		CompletedToday:  1,
	}
	if ana != want {
		t.Errorf("Ana = %+v, want %+v", ana, want)
	}

	un, _ := find(stats, constants.UnassignedName)
	if un.TotalTasks != 1 || un.PendingTasks != 1 {
		t.Errorf("empty assignee should count as Unassigned, got %+v", un)
	}
}

func TestOrdering(t *testing.T) {
	yesterday := ts(now.AddDate(0, 0, -1))
	tasks := []models.UnifiedTask{
		// Unassigned has the most overdue but still sorts last.
		assigned("1", constants.UnassignedName, models.StatusPending, yesterday),
		assigned("2", constants.UnassignedName, models.StatusPending, yesterday),
		assigned("3", constants.UnassignedName, models.StatusPending, yesterday),
		assigned("4", "Bea", models.StatusPending, yesterday),
		assigned("5", "Bea", models.StatusPending, yesterday),
		assigned("6", "Carl", models.StatusPending, yesterday),
		assigned("7", "Carl", models.StatusPending, nil),
		assigned("8", "Dana", models.StatusPending, yesterday),
		assigned("9", "Eli", models.StatusPending, yesterday),
	}
	stats := Compute(tasks, Options{Pinned: []string{"Zoe", "Dana"}, Now: now, Location: time.UTC})

	want := []string{"Dana", "Zoe", "Bea", "Carl", "Eli", constants.UnassignedName}
	if len(stats) != len(want) {
		t.Fatalf("got %d records, want %d", len(stats), len(want))
	}
	for i, name := range want {
		if stats[i].Name != name {
			got := make([]string, len(stats))
			for j, ps := range stats {
				got[j] = ps.Name
			}
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestGroupScope(t *testing.T) {
	a := assigned("1", "Ana", models.StatusPending, nil)
	a.GroupID = "g1"
	b := assigned("2", "Luis", models.StatusPending, nil)
	b.GroupID = "g2"

	stats := Compute([]models.UnifiedTask{a, b}, Options{GroupID: "g1", Now: now, Location: time.UTC})
	if _, ok := find(stats, "Luis"); ok {
		t.Error("Luis has no tasks in g1 and is not pinned")
	}
	if ana, _ := find(stats, "Ana"); ana.TotalTasks != 1 {
		t.Errorf("Ana.TotalTasks = %d, want 1", ana.TotalTasks)
	}
}

func TestByGroup(t *testing.T) {
	a := assigned("1", "Ana", models.StatusPending, ts(now.AddDate(0, 0, -2)))
	a.GroupID = "g1"
	b := assigned("2", "Luis", models.StatusInProgress, nil)
	b.GroupID = "g1"
	c := assigned("3", "Luis", models.StatusPending, nil)

	groups := []models.TaskGroup{{ID: "g1", Name: "Electrical"}, {ID: "g2", Name: "HVAC"}}
	got := ByGroup([]models.UnifiedTask{a, b, c}, groups, now, time.UTC)

	want := []GroupStats{
		{ID: "g1", Name: "Electrical", TotalTasks: 2, PendingTasks: 1, InProgress: 1, OverdueTasks: 1},
		{ID: "g2", Name: "HVAC"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d groups, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
