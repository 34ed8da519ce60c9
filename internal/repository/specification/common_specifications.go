package specification

import (
	"notefiber-sync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

func (s ByID) IsSatisfiedBy(n *model.Note) bool {
	return n.Id == s.ID
}
