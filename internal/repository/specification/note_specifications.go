package specification

import (
	"notefiber-sync/internal/model"

	"gorm.io/gorm"
)

// NoteOwnedByUser is the only query the document client issues for lists:
// owner equality, no server-side ordering.
type NoteOwnedByUser struct {
	UserID string
}

func (s NoteOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.user_id = ?", s.UserID)
}

func (s NoteOwnedByUser) IsSatisfiedBy(n *model.Note) bool {
	return n.UserId == s.UserID
}
