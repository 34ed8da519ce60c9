package contract

import (
	"context"

	"notefiber-sync/internal/model"
	"notefiber-sync/internal/repository/specification"

	"github.com/google/uuid"
)

// NoteRepository is the document store boundary: one named collection of
// note records queried by field.
type NoteRepository interface {
	// Create stores note and fills in the store-assigned Id, CreatedAt and UpdatedAt.
	Create(ctx context.Context, note *model.Note) error
	// Update overwrites the record with note.Id, keeping CreatedAt. Missing ids fail with errs.ErrNotFound.
	Update(ctx context.Context, note *model.Note) error
	// Delete removes the record. Missing ids fail with errs.ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	// FindOne returns nil, nil when nothing matches.
	FindOne(ctx context.Context, specs ...specification.Specification) (*model.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Note, error)
}
