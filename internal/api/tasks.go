package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"taskdash/internal/model"
)

// DefaultPageSize is the fixed page the views load.
const DefaultPageSize = 100

// ListTasks fetches one page of tasks. completed, when non-nil,
// filters by completion state.
func (c *Client) ListTasks(ctx context.Context, skip, limit int, completed *bool) ([]model.Task, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	if completed != nil {
		q.Set("completed", strconv.FormatBool(*completed))
	}
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, id int) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTask(ctx context.Context, in model.TaskCreate) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int, in model.TaskUpdate) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil, nil)
}
