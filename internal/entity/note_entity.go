package entity

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// NoteTags is the fixed set offered by the authoring flow. The document
// store does not enforce it.
var NoteTags = []string{"Personal", "Work", "Travel", "Reminder"}

// Note is the domain shape handed to consumers. It never carries the owner
// or store timestamps.
type Note struct {
	Id    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
	Date  string `json:"date"`
}

// NoteDraft is a note that has not been persisted yet.
type NoteDraft struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (d NoteDraft) WithId(id string) Note {
	return Note{
		Id:    id,
		Title: d.Title,
		Body:  d.Body,
		Tag:   d.Tag,
		Date:  d.Date,
	}
}

func (n Note) Draft() NoteDraft {
	return NoteDraft{
		Title: n.Title,
		Body:  n.Body,
		Tag:   n.Tag,
		Date:  n.Date,
	}
}

// Matches reports whether query is a case-insensitive substring of the
// title or the body. An empty query matches every note.
func (n Note) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Body), q)
}

func Today(now time.Time) string {
	return now.Format(DateLayout)
}

func IsKnownTag(tag string) bool {
	for _, t := range NoteTags {
		if t == tag {
			return true
		}
	}
	return false
}
