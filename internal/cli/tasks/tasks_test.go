package tasks

import (
	"net/http"
	"strings"
	"testing"

	"github.com/julianstephens/mantenix/internal/cli/clitest"
	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/models"
)

func sampleBackend() *clitest.Backend {
	return &clitest.Backend{
		Agenda: []models.AgendaTask{
			{ID: "1", Title: "Inspect boiler", Status: "PENDING", Priority: "HIGH", AssignedToName: "Ana", DueDate: "2020-01-01"},
			{ID: "2", Title: "Call supplier", Status: "COMPLETED", Priority: "LOW"},
		},
		Regular: []models.RegularTask{
			{ID: "1", Title: "Replace filter", Status: "in_progress", Priority: "urgent", Assignee: "Luis", GroupID: "g1"},
		},
		Groups: []models.TaskGroup{{ID: "g1", Name: "Plant room"}},
	}
}

func TestListCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     ListCmd
		want    []string
		notWant []string
	}{
		{
			name: "all",
			cmd:  ListCmd{FilterFlags: FilterFlags{Origin: "all"}},
			want: []string{"Tasks (3 of 3; agenda 2, tasks 1)", "agenda:1", "agenda:2", "regular:1"},
		},
		{
			name:    "agenda only",
			cmd:     ListCmd{FilterFlags: FilterFlags{Origin: "agenda"}},
			want:    []string{"agenda:1", "agenda:2"},
			notWant: []string{"regular:1"},
		},
		{
			name:    "overdue",
			cmd:     ListCmd{FilterFlags: FilterFlags{Origin: "all", Overdue: true}},
			want:    []string{"Inspect boiler"},
			notWant: []string{"Call supplier", "Replace filter"},
		},
		{
			name:    "person",
			cmd:     ListCmd{FilterFlags: FilterFlags{Origin: "all", Person: "Luis"}},
			want:    []string{"Replace filter"},
			notWant: []string{"Inspect boiler"},
		},
		{
			name: "json",
			cmd:  ListCmd{FilterFlags: FilterFlags{Origin: "all", Status: "completed"}, JSON: true},
			want: []string{`"agendaCount": 2`, `"originalAgendaTask"`, `"Call supplier"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := clitest.NewContext(t, sampleBackend())
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("list failed: %v", err)
			}
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output should not contain %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestListCmdInvalidFilter(t *testing.T) {
	ctx, _ := clitest.NewContext(t, sampleBackend())
	cmd := ListCmd{FilterFlags: FilterFlags{Origin: "all", Priority: "critical"}}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestStatusCmd(t *testing.T) {
	tests := []struct {
		name       string
		cmd        StatusCmd
		wantPath   string
		wantStatus string
	}{
		{"agenda uses upper case", StatusCmd{Origin: "agenda", ID: "1", Status: "completed"}, "/api/agenda/tasks/1", "COMPLETED"},
		{"regular uses canonical", StatusCmd{Origin: "regular", ID: "1", Status: "Waiting"}, "/api/tasks/1", "waiting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := sampleBackend()
			ctx, out := clitest.NewContext(t, backend)
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("status failed: %v", err)
			}
			muts := backend.Mutations()
			if len(muts) != 1 {
				t.Fatalf("expected 1 mutation, got %d", len(muts))
			}
			if muts[0].Path != tt.wantPath || muts[0].Body["status"] != tt.wantStatus {
				t.Errorf("unexpected mutation: %+v", muts[0])
			}
			if !strings.Contains(out.String(), "Task updated") {
				t.Errorf("expected success notification, got %q", out.String())
			}
		})
	}
}

func TestStatusCmdRejectsBeforeRequest(t *testing.T) {
	tests := []struct {
		name string
		cmd  StatusCmd
	}{
		{"unknown status", StatusCmd{Origin: "agenda", ID: "1", Status: "done"}},
		{"unknown task", StatusCmd{Origin: "agenda", ID: "99", Status: "completed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := sampleBackend()
			ctx, _ := clitest.NewContext(t, backend)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
			if n := len(backend.Mutations()); n != 0 {
				t.Errorf("expected no request, got %d", n)
			}
		})
	}
}

func TestStatusCmdBackendFailure(t *testing.T) {
	backend := sampleBackend()
	backend.FailWrites = true
	ctx, out := clitest.NewContext(t, backend)

	cmd := StatusCmd{Origin: "agenda", ID: "1", Status: "completed"}
	if err := cmd.Run(ctx); err == nil {
		t.Fatal("expected error from failed update")
	}
	if !strings.Contains(out.String(), "Failed to update task") {
		t.Errorf("expected failure notification, got %q", out.String())
	}
}

func TestAddCmd(t *testing.T) {
	tests := []struct {
		name     string
		cmd      AddCmd
		wantPath string
		wantBody map[string]interface{}
		wantOut  string
	}{
		{
			name:     "agenda uses upper case",
			cmd:      AddCmd{Origin: "agenda", Title: "Bleed radiators", Priority: "high", Due: "2026-10-20", Assignee: "Ana"},
			wantPath: "/api/agenda/tasks",
			wantBody: map[string]interface{}{"title": "Bleed radiators", "status": "PENDING", "priority": "HIGH", "dueDate": "2026-10-20", "assignedToName": "Ana"},
			wantOut:  "✓ Task created: Bleed radiators (agenda:new-1)",
		},
		{
			name:     "regular uses canonical",
			cmd:      AddCmd{Origin: "regular", Title: " Paint hallway ", Priority: "Urgent", Group: "g1"},
			wantPath: "/api/tasks",
			wantBody: map[string]interface{}{"title": "Paint hallway", "status": "pending", "priority": "urgent", "groupId": "g1"},
			wantOut:  "✓ Task created: Paint hallway (regular:new-1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := sampleBackend()
			ctx, out := clitest.NewContext(t, backend)
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("add failed: %v", err)
			}
			muts := backend.Mutations()
			if len(muts) != 1 || muts[0].Method != http.MethodPost || muts[0].Path != tt.wantPath {
				t.Fatalf("unexpected mutations %+v", muts)
			}
			for k, v := range tt.wantBody {
				if muts[0].Body[k] != v {
					t.Errorf("body[%s] = %v, want %v", k, muts[0].Body[k], v)
				}
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("unexpected output %q", out.String())
			}
		})
	}
}

func TestAddCmdRejectsBeforeRequest(t *testing.T) {
	tests := []struct {
		name string
		cmd  AddCmd
	}{
		{"blank title", AddCmd{Origin: "agenda", Title: "  ", Priority: "medium"}},
		{"unknown priority", AddCmd{Origin: "regular", Title: "x", Priority: "critical"}},
		{"bad due date", AddCmd{Origin: "regular", Title: "x", Priority: "low", Due: "tomorrow-ish"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := sampleBackend()
			ctx, _ := clitest.NewContext(t, backend)
			err := tt.cmd.Run(ctx)
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Errorf("Run() error = %v, want validation error", err)
			}
			if n := len(backend.Mutations()); n != 0 {
				t.Errorf("expected no request, got %d", n)
			}
		})
	}
}

func TestDeleteCmd(t *testing.T) {
	tests := []struct {
		name     string
		cmd      DeleteCmd
		wantPath string
	}{
		{"agenda", DeleteCmd{Origin: "agenda", ID: "1"}, "/api/agenda/tasks/1"},
		{"regular", DeleteCmd{Origin: "regular", ID: "1"}, "/api/tasks/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := sampleBackend()
			ctx, out := clitest.NewContext(t, backend)
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			muts := backend.Mutations()
			if len(muts) != 1 || muts[0].Method != http.MethodDelete || muts[0].Path != tt.wantPath {
				t.Fatalf("unexpected mutations %+v", muts)
			}
			if !strings.Contains(out.String(), "deleted") {
				t.Errorf("unexpected output %q", out.String())
			}
		})
	}

	backend := sampleBackend()
	ctx, _ := clitest.NewContext(t, backend)
	if err := (&DeleteCmd{Origin: "agenda", ID: " "}).Run(ctx); err == nil {
		t.Error("expected error for blank id")
	}
	backend.FailWrites = true
	if err := (&DeleteCmd{Origin: "regular", ID: "1"}).Run(ctx); err == nil {
		t.Error("expected error from failed delete")
	}
}

func TestBoardCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t, sampleBackend())
	cmd := BoardCmd{FilterFlags: FilterFlags{Origin: "all"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, w := range []string{"PENDING (1)", "IN_PROGRESS (1)", "COMPLETED (1)", "WAITING (0)"} {
		if !strings.Contains(got, w) {
			t.Errorf("board missing %q:\n%s", w, got)
		}
	}
}

func TestGroupsCmd(t *testing.T) {
	ctx, out := clitest.NewContext(t, sampleBackend())
	if err := (&GroupsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Plant room") {
		t.Errorf("groups output missing group:\n%s", out.String())
	}
}
