package contacts

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/validation"
)

type ReminderListCmd struct {
	All bool `help:"Include completed reminders."`
}

func (c *ReminderListCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	reminders, err := client.ListReminders(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	sort.SliceStable(reminders, func(i, j int) bool { return reminders[i].DueDate < reminders[j].DueDate })

	shown := 0
	for _, r := range reminders {
		if r.IsCompleted && !c.All {
			continue
		}
		if shown == 0 {
			ctx.Println("Reminders:")
		}
		shown++
		mark := " "
		if r.IsCompleted {
			mark = "x"
		}
		ctx.Printf("  [%s] %-10s %-20s %s\n", mark, r.ID, r.DueDate, r.Title)
	}
	if shown == 0 {
		ctx.Println("No reminders found")
	}
	return nil
}

type ReminderAddCmd struct {
	Title       string `arg:"" help:"Reminder title."`
	Due         string `required:"" help:"Due date (YYYY-MM-DD or RFC 3339)."`
	Description string `help:"Description."`
	Priority    string `help:"Priority (low, medium, high, urgent)."`
	Contact     string `help:"Related contact id."`
	Task        string `help:"Related task id."`
}

func (c *ReminderAddCmd) Run(ctx *cli.Context) error {
	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}
	reminder := models.Reminder{
		Title:       c.Title,
		Description: c.Description,
		DueDate:     c.Due,
		Priority:    c.Priority,
		ContactID:   models.ID(c.Contact),
		TaskID:      models.ID(c.Task),
	}
	if err := validation.Reminder(reminder, loc).Err("add reminder"); err != nil {
		return err
	}

	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	created, err := client.CreateReminder(context.Background(), reminder)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	ctx.Printf("✓ Reminder created: %s (%s)\n", created.Title, created.ID)
	return nil
}

type ReminderDoneCmd struct {
	ID string `arg:"" help:"Reminder id."`
}

func (c *ReminderDoneCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	reminders, err := client.ListReminders(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	for _, r := range reminders {
		if string(r.ID) != c.ID {
			continue
		}
		if r.IsCompleted {
			ctx.Printf("Reminder %s is already completed\n", c.ID)
			return nil
		}
		r.IsCompleted = true
		if _, err := client.UpdateReminder(context.Background(), r); err != nil {
			return fmt.Errorf("failed to complete reminder %s: %w", c.ID, err)
		}
		ctx.Printf("✓ Reminder %s completed\n", c.ID)
		return nil
	}
	return fmt.Errorf("reminder %s not found", c.ID)
}

type ReminderDeleteCmd struct {
	ID string `arg:"" help:"Reminder id."`
}

func (c *ReminderDeleteCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	if err := client.DeleteReminder(context.Background(), models.ID(c.ID)); err != nil {
		return fmt.Errorf("failed to delete reminder %s: %w", c.ID, err)
	}
	ctx.Printf("✓ Reminder %s deleted\n", c.ID)
	return nil
}
