package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/mantenix/internal/models"
)

// Patch is a partial update body.
type Patch map[string]interface{}

func (c *Client) ListAgendaTasks(ctx context.Context) ([]models.AgendaTask, error) {
	data, err := c.do(ctx, familyAgenda, http.MethodGet, "/api/agenda/tasks", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.AgendaTask]("list agenda tasks", data)
}

func (c *Client) CreateAgendaTask(ctx context.Context, task models.AgendaTask) (*models.AgendaTask, error) {
	data, err := c.do(ctx, familyAgenda, http.MethodPost, "/api/agenda/tasks", task)
	if err != nil {
		return nil, err
	}
	var out models.AgendaTask
	if err := decodeRecord("create agenda task", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAgendaTask(ctx context.Context, id models.ID, patch Patch) (*models.AgendaTask, error) {
	data, err := c.do(ctx, familyAgenda, http.MethodPut, "/api/agenda/tasks/"+id.String(), patch)
	if err != nil {
		return nil, err
	}
	var out models.AgendaTask
	if err := decodeRecord("update agenda task", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAgendaTask(ctx context.Context, id models.ID) error {
	_, err := c.do(ctx, familyAgenda, http.MethodDelete, "/api/agenda/tasks/"+id.String(), nil)
	return err
}

func (c *Client) GetAgendaStats(ctx context.Context) (*models.AgendaStats, error) {
	data, err := c.do(ctx, familyAgenda, http.MethodGet, "/api/agenda/stats", nil)
	if err != nil {
		return nil, err
	}
	var out models.AgendaStats
	if err := decodeRecord("agenda stats", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
