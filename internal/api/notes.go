package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"taskdash/internal/model"
)

// ListNotes fetches one page of notes. No filters beyond paging.
func (c *Client) ListNotes(ctx context.Context, skip, limit int) ([]model.Note, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	var out []model.Note
	if err := c.do(ctx, http.MethodGet, "/notes/", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetNote(ctx context.Context, id int) (*model.Note, error) {
	var n model.Note
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/notes/%d", id), nil, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) CreateNote(ctx context.Context, in model.NoteCreate) (*model.Note, error) {
	var n model.Note
	if err := c.do(ctx, http.MethodPost, "/notes/", nil, in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int, in model.NoteUpdate) (*model.Note, error) {
	var n model.Note
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", id), nil, in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, nil, nil)
}
