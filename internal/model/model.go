package model

import (
	"strconv"
	"strings"
	"time"
)

// Book is the summary record returned by the search and list endpoints.
type Book struct {
	ID              int64  `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"book_title"`
	Author          string `json:"book_author"`
	PublicationYear int    `json:"publication_year"`
	Publisher       string `json:"publisher"`
}

// Byline is the secondary line shown under a book title: "Author (Year)".
func (b Book) Byline() string {
	author := strings.TrimSpace(b.Author)
	if b.PublicationYear == 0 {
		return author
	}
	return author + " (" + strconv.Itoa(b.PublicationYear) + ")"
}

// SearchPage is one page of book suggestions. Next is an absolute URL, or nil on the last page.
type SearchPage struct {
	Results []Book  `json:"results"`
	Next    *string `json:"next"`
}

// NextCursor returns the next page cursor, or "" when there is none.
func (p SearchPage) NextCursor() string {
	if p.Next == nil {
		return ""
	}
	return strings.TrimSpace(*p.Next)
}

type TodoEntry struct {
	ID   int64 `json:"id"`
	Book Book  `json:"book"`
	// CreatedAt is kept as sent, like Meeting.StartTime.
	CreatedAt string `json:"created_at"`
}

// Created parses CreatedAt. Naive timestamps (no zone) are read as UTC.
func (e TodoEntry) Created() (time.Time, bool) {
	return parseServerTime(e.CreatedAt)
}

type Meeting struct {
	ID          int64  `json:"id"`
	Book        Book   `json:"book"`
	Description string `json:"description"`
	// StartTime is kept as the server sent it; servers in the wild disagree on zone suffixes.
	StartTime string `json:"start_time"`
	Duration  string `json:"duration"`
}

// Start parses StartTime. Naive timestamps (no zone) are read as UTC.
func (m Meeting) Start() (time.Time, bool) {
	return parseServerTime(m.StartTime)
}

// parseServerTime accepts RFC3339 or a zoneless YYYY-MM-DDTHH:MM:SS[.frac] (read as UTC).
func parseServerTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, MeetingTimeLayout} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

type Note struct {
	ID       int64  `json:"id"`
	BookID   int64  `json:"book,omitempty"`
	Note     string `json:"note"`
	PostedBy int64  `json:"posted_by"`
}

// BookWithNotes is a book plus every note posted on it (GET /club/notes/books/).
type BookWithNotes struct {
	Book
	Notes []Note `json:"notes"`
}

// Session is the client-side login state. The zero value is "logged out".
type Session struct {
	UserID        string `json:"userId,omitempty"`
	Token         string `json:"-"`
	Authenticated bool   `json:"authenticated"`
}

// MeetingTimeLayout is the wire format for meeting start times: UTC, second precision, no zone.
const MeetingTimeLayout = "2006-01-02T15:04:05"
