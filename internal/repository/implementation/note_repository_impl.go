package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notefiber-sync/internal/errs"
	"notefiber-sync/internal/model"
	"notefiber-sync/internal/repository/contract"
	"notefiber-sync/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes mapped onto the data error kinds.
const (
	pgInsufficientPrivilege = "42501"
	pgInvalidTextRepr       = "22P02"
)

type NoteRepositoryImpl struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{db: db}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *model.Note) error {
	note.Id = uuid.Nil // the store assigns ids
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, note *model.Note) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Note{}).
			Where("id = ? AND user_id = ?", note.Id, note.UserId).
			Updates(map[string]interface{}{
				"title":      note.Title,
				"body":       note.Body,
				"tag":        note.Tag,
				"date":       note.Date,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Note{}).Where("id = ?", note.Id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("note %s belongs to another user: %w", note.Id, errs.ErrPermissionDenied)
			}
			return fmt.Errorf("note %s: %w", note.Id, errs.ErrNotFound)
		}

		// Reload so CreatedAt reflects the stored value.
		return tx.First(note, "id = ?", note.Id).Error
	})
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Note{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("note %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*model.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return &m, nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, translate(err)
	}
	return models, nil
}

// translate keeps the driver message and tags it with the matching sentinel.
func translate(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", err.Error(), errs.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInsufficientPrivilege:
			return fmt.Errorf("%s: %w", pgErr.Message, errs.ErrPermissionDenied)
		case pgInvalidTextRepr:
			return fmt.Errorf("%s: %w", pgErr.Message, errs.ErrNotFound)
		}
	}
	return err
}
