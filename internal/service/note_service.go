package service

import (
	"context"
	"sort"
	"time"

	"notefiber-sync/internal/activity"
	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/errs"
	"notefiber-sync/internal/mapper"
	"notefiber-sync/internal/pkg/logger"
	"notefiber-sync/internal/pkg/validation"
	"notefiber-sync/internal/repository/contract"
	"notefiber-sync/internal/repository/specification"
)

type INoteService interface {
	// ListByOwner returns the owner's notes newest first.
	ListByOwner(ctx context.Context, userId string) ([]entity.Note, error)
	// GetById returns nil, nil when no such note exists.
	GetById(ctx context.Context, id string) (*entity.Note, error)
	// Create stores draft for userId and returns the store-assigned id.
	Create(ctx context.Context, draft entity.NoteDraft, userId string) (string, error)
	Update(ctx context.Context, note entity.Note, userId string) error
	Delete(ctx context.Context, id string) error
}

type noteService struct {
	repo     contract.NoteRepository
	mapper   *mapper.NoteMapper
	activity activity.Publisher
	logger   logger.ILogger
	now      func() time.Time
}

func NewNoteService(
	repo contract.NoteRepository,
	noteMapper *mapper.NoteMapper,
	publisher activity.Publisher,
	log logger.ILogger,
) INoteService {
	if noteMapper == nil {
		noteMapper = mapper.NewNoteMapper()
	}
	if publisher == nil {
		publisher = activity.Nop{}
	}
	return &noteService{
		repo:     repo,
		mapper:   noteMapper,
		activity: publisher,
		logger:   log,
		now:      time.Now,
	}
}

func (c *noteService) ListByOwner(ctx context.Context, userId string) ([]entity.Note, error) {
	records, err := c.repo.FindAll(ctx, specification.NoteOwnedByUser{UserID: userId})
	if err != nil {
		return nil, c.fail("list", err, map[string]interface{}{"user_id": userId})
	}

	sort.SliceStable(records, func(i, j int) bool {
		ki, kj := c.mapper.SortKey(records[i]), c.mapper.SortKey(records[j])
		if !ki.Equal(kj) {
			return ki.After(kj)
		}
		return records[i].Id.String() < records[j].Id.String()
	})

	return c.mapper.ToEntities(records), nil
}

func (c *noteService) GetById(ctx context.Context, id string) (*entity.Note, error) {
	key, err := mapper.ParseId(id)
	if err != nil {
		return nil, nil
	}

	record, err := c.repo.FindOne(ctx, specification.ByID{ID: key})
	if err != nil {
		return nil, c.fail("get", err, map[string]interface{}{"note_id": id})
	}
	return c.mapper.ToEntity(record), nil
}

func (c *noteService) Create(ctx context.Context, draft entity.NoteDraft, userId string) (string, error) {
	if draft.Date == "" {
		draft.Date = entity.Today(c.now())
	}
	if err := validation.ValidateRequest(draft); err != nil {
		return "", c.fail("create", err, map[string]interface{}{"user_id": userId})
	}

	record, err := c.mapper.ToModel(draft, userId)
	if err != nil {
		return "", c.fail("create", err, map[string]interface{}{"user_id": userId})
	}
	if err := c.repo.Create(ctx, record); err != nil {
		return "", c.fail("create", err, map[string]interface{}{"user_id": userId})
	}

	id := record.Id.String()
	c.activity.NoteCreated(ctx, userId, draft.WithId(id))
	c.logger.Info("NOTES", "Note created", map[string]interface{}{"note_id": id, "user_id": userId})
	return id, nil
}

func (c *noteService) Update(ctx context.Context, note entity.Note, userId string) error {
	if err := validation.ValidateRequest(note.Draft()); err != nil {
		return c.fail("update", err, map[string]interface{}{"note_id": note.Id})
	}

	record, err := c.mapper.ToUpdateModel(note, userId)
	if err != nil {
		return c.fail("update", err, map[string]interface{}{"note_id": note.Id})
	}
	if err := c.repo.Update(ctx, record); err != nil {
		return c.fail("update", err, map[string]interface{}{"note_id": note.Id})
	}

	c.activity.NoteUpdated(ctx, userId, note)
	c.logger.Info("NOTES", "Note updated", map[string]interface{}{"note_id": note.Id, "user_id": userId})
	return nil
}

func (c *noteService) Delete(ctx context.Context, id string) error {
	key, err := mapper.ParseId(id)
	if err != nil {
		return c.fail("delete", err, map[string]interface{}{"note_id": id})
	}
	if err := c.repo.Delete(ctx, key); err != nil {
		return c.fail("delete", err, map[string]interface{}{"note_id": id})
	}

	c.activity.NoteDeleted(ctx, id)
	c.logger.Info("NOTES", "Note deleted", map[string]interface{}{"note_id": id})
	return nil
}

func (c *noteService) fail(op string, err error, details map[string]interface{}) *errs.DataError {
	dataErr := errs.NewDataError(op, err)
	details["op"] = op
	details["kind"] = string(dataErr.Kind)
	details["error"] = dataErr.Message
	c.logger.Error("NOTES", "Document operation failed", details)
	return dataErr
}
