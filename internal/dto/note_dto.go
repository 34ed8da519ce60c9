package dto

import "notefiber-sync/internal/entity"

// NoteForm is what the authoring screen collects. Unlike a draft it insists
// on a body and a tag from the fixed set.
type NoteForm struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
	Tag   string `json:"tag" validate:"required,oneof=Personal Work Travel Reminder"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (f NoteForm) Draft() entity.NoteDraft {
	return entity.NoteDraft{
		Title: f.Title,
		Body:  f.Body,
		Tag:   f.Tag,
		Date:  f.Date,
	}
}

// NoteFormFrom prefills the form for editing n.
func NoteFormFrom(n entity.Note) NoteForm {
	return NoteForm{
		Title: n.Title,
		Body:  n.Body,
		Tag:   n.Tag,
		Date:  n.Date,
	}
}
