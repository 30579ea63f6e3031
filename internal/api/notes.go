package api

import (
	"context"
	"net/http"
	"net/url"

	"finsafe/internal/core"
)

type notePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *Client) ListNotes(ctx context.Context, token string) ([]core.Note, error) {
	var notes []core.Note
	if err := c.do("list_notes", http.MethodGet, "notes", c.request(ctx, token), &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, token string, n core.Note) (core.Note, error) {
	var saved core.Note
	r := c.request(ctx, token).SetBody(notePayload{Title: n.Title, Content: n.Content})
	if err := c.do("create_note", http.MethodPost, "notes", r, &saved); err != nil {
		return core.Note{}, err
	}
	return saved, nil
}

func (c *Client) UpdateNote(ctx context.Context, token, id string, n core.Note) (core.Note, error) {
	var saved core.Note
	r := c.request(ctx, token).SetBody(notePayload{Title: n.Title, Content: n.Content})
	if err := c.do("update_note", http.MethodPut, "notes/"+url.PathEscape(id), r, &saved); err != nil {
		return core.Note{}, err
	}
	return saved, nil
}

func (c *Client) DeleteNote(ctx context.Context, token, id string) error {
	return c.do("delete_note", http.MethodDelete, "notes/"+url.PathEscape(id), c.request(ctx, token), nil)
}
