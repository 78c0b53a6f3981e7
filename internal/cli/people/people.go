package people

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/mantenix/internal/aggregate"
	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/notifier"
)

type PeopleCmd struct {
	Group string `help:"Scope the rollup to one task group."`
}

func (c *PeopleCmd) Run(ctx *cli.Context) error {
	sess, rec, err := ctx.NewSession(notifier.NewTerminal(ctx.Writer()))
	if err != nil {
		return err
	}
	defer rec.Close()
	if err := sess.Refresh(context.Background()); err != nil {
		logger.Warn("Partial refresh", "error", err)
	}

	view, err := sess.View(aggregate.Filter{GroupID: c.Group})
	if err != nil {
		return err
	}

	ctx.Printf("%-22s %6s %8s %12s %8s %11s\n", "PERSON", "TOTAL", "PENDING", "IN PROGRESS", "OVERDUE", "DONE TODAY")
	for _, p := range view.People {
		name := p.Name
		if p.Pinned {
			name = "* " + name
		}
		ctx.Printf("%-22s %6d %8d %12d %8d %11d\n",
			name, p.TotalTasks, p.PendingTasks, p.InProgressTasks, p.OverdueTasks, p.CompletedToday)
	}
	s := view.Summary
	ctx.Printf("\n%d people with tasks, %d tasks, %d overdue, %d completed today\n",
		s.People, s.Total, s.Overdue, s.CompletedToday)
	return nil
}

type PinAddCmd struct {
	Name string `arg:"" help:"Person to pin."`
}

func (c *PinAddCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("person name cannot be empty")
	}
	if err := ctx.Store.AddPinned(name); err != nil {
		return fmt.Errorf("failed to pin %s: %w", name, err)
	}
	ctx.Printf("✓ Pinned %s\n", name)
	return nil
}

type PinRemoveCmd struct {
	Name string `arg:"" help:"Person to unpin."`
}

func (c *PinRemoveCmd) Run(ctx *cli.Context) error {
	removed, err := ctx.Store.RemovePinned(c.Name)
	if err != nil {
		return fmt.Errorf("failed to unpin %s: %w", c.Name, err)
	}
	if !removed {
		return fmt.Errorf("%s is not pinned", c.Name)
	}
	ctx.Printf("✓ Unpinned %s\n", c.Name)
	return nil
}

type PinListCmd struct{}

func (c *PinListCmd) Run(ctx *cli.Context) error {
	pinned, err := ctx.Store.GetPinned()
	if err != nil {
		return fmt.Errorf("failed to list pinned people: %w", err)
	}
	if len(pinned) == 0 {
		ctx.Println("No pinned people")
		return nil
	}
	ctx.Println("Pinned people:")
	for i, name := range pinned {
		ctx.Printf("  %d. %s\n", i+1, name)
	}
	return nil
}
