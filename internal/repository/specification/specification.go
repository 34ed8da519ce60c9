package specification

import (
	"notefiber-sync/internal/model"

	"gorm.io/gorm"
)

// Specification narrows a notes query. Apply translates it for the SQL
// store, IsSatisfiedBy evaluates it against an in-memory record.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
	IsSatisfiedBy(n *model.Note) bool
}

// SatisfiesAll reports whether n passes every spec.
func SatisfiesAll(n *model.Note, specs ...Specification) bool {
	for _, spec := range specs {
		if !spec.IsSatisfiedBy(n) {
			return false
		}
	}
	return true
}
