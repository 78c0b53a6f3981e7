package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/mantenix/internal/models"
)

func (c *Client) ListRegularTasks(ctx context.Context) ([]models.RegularTask, error) {
	data, err := c.do(ctx, familyTasks, http.MethodGet, "/api/tasks", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.RegularTask]("list tasks", data)
}

func (c *Client) CreateRegularTask(ctx context.Context, task models.RegularTask) (*models.RegularTask, error) {
	data, err := c.do(ctx, familyTasks, http.MethodPost, "/api/tasks", task)
	if err != nil {
		return nil, err
	}
	var out models.RegularTask
	if err := decodeRecord("create task", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRegularTask(ctx context.Context, id models.ID, patch Patch) (*models.RegularTask, error) {
	data, err := c.do(ctx, familyTasks, http.MethodPut, "/api/tasks/"+id.String(), patch)
	if err != nil {
		return nil, err
	}
	var out models.RegularTask
	if err := decodeRecord("update task", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRegularTask(ctx context.Context, id models.ID) error {
	_, err := c.do(ctx, familyTasks, http.MethodDelete, "/api/tasks/"+id.String(), nil)
	return err
}

func (c *Client) ListTaskGroups(ctx context.Context) ([]models.TaskGroup, error) {
	data, err := c.do(ctx, familyGroups, http.MethodGet, "/api/task-groups", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.TaskGroup]("list task groups", data)
}
