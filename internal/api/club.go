package api

import (
	"context"
	"net/http"
	"time"

	"bookclub-cli/internal/model"
)

type CreateMeetingRequest struct {
	BookID      int64     `json:"book_id"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"-"`
	Duration    string    `json:"duration"`
}

func (c *Client) ListMeetings(ctx context.Context) ([]model.Meeting, error) {
	var out []model.Meeting
	if err := c.do(ctx, http.MethodGet, "/club/meetings", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Meeting{}
	}
	return out, nil
}

// CreateMeeting schedules a meeting. StartTime is sent in UTC with second precision and no zone.
func (c *Client) CreateMeeting(ctx context.Context, req CreateMeetingRequest) error {
	body := map[string]any{
		"book_id":     req.BookID,
		"description": req.Description,
		"start_time":  req.StartTime.UTC().Format(model.MeetingTimeLayout),
		"duration":    req.Duration,
	}
	return c.do(ctx, http.MethodPost, "/club/meetings/", body, nil)
}

// ListBooksWithNotes returns every book that has at least one note, with its notes.
func (c *Client) ListBooksWithNotes(ctx context.Context) ([]model.BookWithNotes, error) {
	var out []model.BookWithNotes
	if err := c.do(ctx, http.MethodGet, "/club/notes/books/", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.BookWithNotes{}
	}
	return out, nil
}

func (c *Client) CreateNote(ctx context.Context, bookID int64, note string) error {
	body := map[string]any{"book_id": bookID, "note": note}
	return c.do(ctx, http.MethodPost, "/club/notes/", body, nil)
}
