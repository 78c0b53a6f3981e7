package system

import (
	"os"
	"strings"
	"testing"

	"github.com/julianstephens/mantenix/internal/cli/clitest"
	"github.com/julianstephens/mantenix/internal/models"
)

func TestDoctorHealthy(t *testing.T) {
	ctx, out := clitest.NewContext(t, &clitest.Backend{Groups: []models.TaskGroup{{ID: "g1", Name: "Plant room"}}})

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out.String())
	}
	got := out.String()
	for _, want := range []string{
		"✓ Local store reachable: OK",
		"✓ Schema version: OK",
		"✓ Config valid: OK",
		"✓ Backend reachable: OK",
		"⚠ Backups present: WARNING",
		"All diagnostics passed!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("doctor output missing %q:\n%s", want, got)
		}
	}
}

func TestDoctorReportsInvalidConfig(t *testing.T) {
	ctx, out := clitest.NewContext(t, &clitest.Backend{})
	ctx.Config.Timezone = "Nowhere/Special"

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail")
	}
	got := out.String()
	if !strings.Contains(got, "❌ Config valid: FAIL") || !strings.Contains(got, "❌ Clock/timezone: FAIL") {
		t.Errorf("expected config and clock failures:\n%s", got)
	}
}

func TestInitForce(t *testing.T) {
	ctx, out := clitest.NewContext(t, &clitest.Backend{})
	if err := ctx.Store.AddPinned("Ana"); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("expected deletion notice:\n%s", out.String())
	}
	if _, err := os.Stat(ctx.Store.GetConfigPath()); err != nil {
		t.Fatalf("database not recreated: %v", err)
	}
	pinned, err := ctx.Store.GetPinned()
	if err != nil {
		t.Fatal(err)
	}
	if len(pinned) != 0 {
		t.Errorf("expected a fresh store, got pinned %v", pinned)
	}
}

func TestValidateReportsUnknownValues(t *testing.T) {
	backend := &clitest.Backend{
		Agenda: []models.AgendaTask{
			{ID: "1", Title: "Inspect boiler", Status: "PENDING", Priority: "HIGH"},
		},
		Regular: []models.RegularTask{
			{ID: "1", Title: "Replace filter", Status: "archived", Priority: "medium"},
		},
	}
	ctx, out := clitest.NewContext(t, backend)

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Found") || !strings.Contains(got, "archived") {
		t.Errorf("expected unknown status reported:\n%s", got)
	}
}
