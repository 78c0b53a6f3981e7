package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/mantenix/internal/models"
)

func (c *Client) ListContacts(ctx context.Context) ([]models.Contact, error) {
	data, err := c.do(ctx, familyContacts, http.MethodGet, "/api/contacts", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Contact]("list contacts", data)
}

func (c *Client) CreateContact(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	data, err := c.do(ctx, familyContacts, http.MethodPost, "/api/contacts", contact)
	if err != nil {
		return nil, err
	}
	var out models.Contact
	if err := decodeRecord("create contact", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateContact(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	data, err := c.do(ctx, familyContacts, http.MethodPut, "/api/contacts/"+contact.ID.String(), contact)
	if err != nil {
		return nil, err
	}
	var out models.Contact
	if err := decodeRecord("update contact", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id models.ID) error {
	_, err := c.do(ctx, familyContacts, http.MethodDelete, "/api/contacts/"+id.String(), nil)
	return err
}

func (c *Client) ListReminders(ctx context.Context) ([]models.Reminder, error) {
	data, err := c.do(ctx, familyReminders, http.MethodGet, "/api/reminders", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Reminder]("list reminders", data)
}

func (c *Client) CreateReminder(ctx context.Context, reminder models.Reminder) (*models.Reminder, error) {
	data, err := c.do(ctx, familyReminders, http.MethodPost, "/api/reminders", reminder)
	if err != nil {
		return nil, err
	}
	var out models.Reminder
	if err := decodeRecord("create reminder", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReminder(ctx context.Context, reminder models.Reminder) (*models.Reminder, error) {
	data, err := c.do(ctx, familyReminders, http.MethodPut, "/api/reminders/"+reminder.ID.String(), reminder)
	if err != nil {
		return nil, err
	}
	var out models.Reminder
	if err := decodeRecord("update reminder", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReminder(ctx context.Context, id models.ID) error {
	_, err := c.do(ctx, familyReminders, http.MethodDelete, "/api/reminders/"+id.String(), nil)
	return err
}
