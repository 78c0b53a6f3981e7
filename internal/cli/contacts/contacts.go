package contacts

import (
	"context"
	"fmt"

	"github.com/julianstephens/mantenix/internal/cli"
	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/validation"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	contacts, err := client.ListContacts(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}
	if len(contacts) == 0 {
		ctx.Println("No contacts found")
		return nil
	}
	ctx.Println("Contacts:")
	for _, ct := range contacts {
		ctx.Printf("  [%s] %s", ct.ID, ct.Name)
		if ct.Company != "" {
			ctx.Printf(" (%s)", ct.Company)
		}
		ctx.Println()
		if ct.Email != "" || ct.Phone != "" {
			ctx.Printf("      %s %s\n", ct.Email, ct.Phone)
		}
	}
	return nil
}

type AddCmd struct {
	Name     string `arg:"" help:"Contact name."`
	Email    string `help:"Email address."`
	Phone    string `help:"Phone number."`
	Company  string `help:"Company."`
	Position string `help:"Position or role."`
	Notes    string `help:"Free-text notes."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	contact := models.Contact{
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Company:  c.Company,
		Position: c.Position,
		Notes:    c.Notes,
	}
	if err := validation.Contact(contact).Err("add contact"); err != nil {
		return err
	}

	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	created, err := client.CreateContact(context.Background(), contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	ctx.Printf("✓ Contact created: %s (%s)\n", created.Name, created.ID)
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Contact id."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	if err := client.DeleteContact(context.Background(), models.ID(c.ID)); err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", c.ID, err)
	}
	ctx.Printf("✓ Contact %s deleted\n", c.ID)
	return nil
}

// EditCmd changes only the fields given; an empty value clears the field.
type EditCmd struct {
	ID       string  `arg:"" help:"Contact id."`
	Name     *string `help:"Contact name."`
	Email    *string `help:"Email address."`
	Phone    *string `help:"Phone number."`
	Company  *string `help:"Company."`
	Position *string `help:"Position or role."`
	Notes    *string `help:"Free-text notes."`
}

func (c *EditCmd) apply(ct *models.Contact) bool {
	changed := false
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			changed = true
		}
	}
	set(&ct.Name, c.Name)
	set(&ct.Email, c.Email)
	set(&ct.Phone, c.Phone)
	set(&ct.Company, c.Company)
	set(&ct.Position, c.Position)
	set(&ct.Notes, c.Notes)
	return changed
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if !c.apply(&models.Contact{}) {
		return apperrors.Validation("edit contact", "nothing to change")
	}

	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	contacts, err := client.ListContacts(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}
	for _, ct := range contacts {
		if string(ct.ID) != c.ID {
			continue
		}
		c.apply(&ct)
		if err := validation.Contact(ct).Err("edit contact"); err != nil {
			return err
		}
		updated, err := client.UpdateContact(context.Background(), ct)
		if err != nil {
			return fmt.Errorf("failed to update contact %s: %w", c.ID, err)
		}
		ctx.Printf("✓ Contact updated: %s (%s)\n", updated.Name, updated.ID)
		return nil
	}
	return fmt.Errorf("contact %s not found", c.ID)
}
