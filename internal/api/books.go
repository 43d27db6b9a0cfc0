package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookclub-cli/internal/model"
)

// SearchBooks fetches the first page of suggestions for q.
func (c *Client) SearchBooks(ctx context.Context, q string) (model.SearchPage, error) {
	var page model.SearchPage
	path := "/books/search?" + url.Values{"q": []string{q}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return model.SearchPage{}, err
	}
	return page, nil
}

// NextSearchPage follows a pagination cursor returned in SearchPage.Next.
func (c *Client) NextSearchPage(ctx context.Context, cursor string) (model.SearchPage, error) {
	path, err := CursorPath(cursor)
	if err != nil {
		return model.SearchPage{}, err
	}
	var page model.SearchPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return model.SearchPage{}, err
	}
	return page, nil
}

// CursorPath turns an absolute "next" URL into a path relative to the API root.
//
// The server advertises cursors under its own mount point (".../api/books/search?..."),
// while the client's base URL already includes it, so a leading "/api" is dropped.
func CursorPath(cursor string) (string, error) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return "", fmt.Errorf("api: empty cursor")
	}
	u, err := url.Parse(cursor)
	if err != nil {
		return "", fmt.Errorf("api: invalid cursor %q: %w", cursor, err)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == "/api" {
		path = "/"
	} else if strings.HasPrefix(path, "/api/") {
		path = strings.TrimPrefix(path, "/api")
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, nil
}

func (c *Client) ListTodos(ctx context.Context) ([]model.TodoEntry, error) {
	var out []model.TodoEntry
	if err := c.do(ctx, http.MethodGet, "/books/todo", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.TodoEntry{}
	}
	return out, nil
}

// AddTodo puts a book on the user's reading list.
func (c *Client) AddTodo(ctx context.Context, bookID int64) error {
	body := map[string]any{"book_id": bookID}
	return c.do(ctx, http.MethodPost, "/books/todo/", body, nil)
}

// ParseBookID parses a book id given on the command line.
func ParseBookID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", s)
	}
	return id, nil
}
