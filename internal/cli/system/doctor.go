package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/mantenix/internal/backup"
	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/storage/sqlite"
)

type check struct {
	name string
	// warn marks a check whose failure does not fail the run.
	warn bool
	run  func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Local store reachable", run: checkStore},
	{name: "Schema version", run: checkSchema},
	{name: "Config valid", run: checkConfig},
	{name: "API token present", run: checkToken},
	{name: "Backend reachable", run: checkBackend},
	{name: "Backups present", warn: true, run: checkBackups},
	{name: "Clock/timezone", run: checkClock},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := 0
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			failed++
		}
	}

	ctx.Println()
	if failed > 0 {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("%d health check(s) failed", failed)
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStore(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	_, err := ctx.Store.GetPreferences()
	return err
}

func checkSchema(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkConfig(ctx *cli.Context) error {
	return ctx.Config.Validate()
}

func checkToken(ctx *cli.Context) error {
	if ctx.Client != nil {
		return nil
	}
	_, _, err := ctx.Config.ResolveToken()
	return err
}

func checkBackend(ctx *cli.Context) error {
	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = client.ListTaskGroups(c)
	return err
}

func checkBackups(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	snaps, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(snaps) == 0 {
		return errors.New("no backups found - consider creating one with 'mantenix backup create'")
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if _, err := ctx.Config.Location(); err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", ctx.Config.Timezone, err)
	}
	return nil
}
