package settings

import (
	"fmt"

	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/utils"
)

type PrefsCmd struct {
	List bool `help:"List current preferences."`

	View     *string `help:"Default view mode (list, kanban, calendar)."`
	Origin   *string `help:"Default origin filter (all, agenda, regular)."`
	Person   *string `help:"Selected person. Empty clears the selection."`
	Timezone *string `help:"IANA timezone used for 'today', or 'Local'."`
}

func (c *PrefsCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Store.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}

	if c.List {
		ctx.Println("Current Preferences:")
		ctx.Printf("  View Mode:       %s\n", prefs.ViewMode)
		ctx.Printf("  Origin Filter:   %s\n", prefs.OriginFilter)
		ctx.Printf("  Selected Person: %s\n", orNone(prefs.SelectedPerson))
		ctx.Printf("  Timezone:        %s\n", prefs.Timezone)
		ctx.Printf("  Pinned People:   %d\n", len(prefs.PinnedPeople))
		return nil
	}

	updated := false
	if c.View != nil {
		prefs.ViewMode = *c.View
		updated = true
	}
	if c.Origin != nil {
		prefs.OriginFilter = *c.Origin
		updated = true
	}
	if c.Person != nil {
		prefs.SelectedPerson = *c.Person
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		prefs.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view preferences or flags to update them.")
		return nil
	}
	if err := models.ValidatePreferences(prefs); err != nil {
		return err
	}
	if err := ctx.Store.SavePreferences(prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	ctx.Println("Preferences updated successfully.")
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

type NotesShowCmd struct{}

func (c *NotesShowCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Store.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}
	if prefs.Notes == "" {
		ctx.Println("No notes")
		return nil
	}
	ctx.Println(prefs.Notes)
	return nil
}

type NotesSetCmd struct {
	Text string `arg:"" optional:"" help:"New notes. Omit to clear."`
}

func (c *NotesSetCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Store.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}
	prefs.Notes = c.Text
	if err := ctx.Store.SavePreferences(prefs); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	if c.Text == "" {
		ctx.Println("Notes cleared.")
	} else {
		ctx.Println("Notes saved.")
	}
	return nil
}
