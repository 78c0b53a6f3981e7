package backups

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/mantenix/internal/cli/clitest"
	"github.com/julianstephens/mantenix/internal/storage/sqlite"
)

func TestCreateAndList(t *testing.T) {
	ctx, out := clitest.NewContext(t, &clitest.Backend{})

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("expected empty listing:\n%s", out.String())
	}

	out.Reset()
	if err := (&CreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: mantenix-") {
		t.Errorf("unexpected create output:\n%s", out.String())
	}

	out.Reset()
	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("expected one backup listed:\n%s", out.String())
	}
}

func TestRestore(t *testing.T) {
	ctx, out := clitest.NewContext(t, &clitest.Backend{})
	if err := ctx.Store.AddPinned("Ana"); err != nil {
		t.Fatal(err)
	}

	mgr, err := manager(ctx)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Store.RemovePinned("Ana"); err != nil {
		t.Fatal(err)
	}

	if err := (&RestoreCmd{BackupFile: filepath.Base(snap.Path), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Database restored successfully!") {
		t.Errorf("unexpected restore output:\n%s", out.String())
	}

	reopened := sqlite.New(ctx.Store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	pinned, err := reopened.GetPinned()
	if err != nil {
		t.Fatal(err)
	}
	if len(pinned) != 1 || pinned[0] != "Ana" {
		t.Errorf("expected restored pin [Ana], got %v", pinned)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	ctx, _ := clitest.NewContext(t, &clitest.Backend{})
	if err := (&RestoreCmd{BackupFile: "mantenix-19990101-000000.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected error for missing backup")
	}
}
