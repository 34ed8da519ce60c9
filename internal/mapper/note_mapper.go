package mapper

import (
	"fmt"
	"time"

	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/errs"
	"notefiber-sync/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NoteMapper translates between the stored record and the domain note.
type NoteMapper struct {
	now func() time.Time
}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{now: time.Now}
}

// NewNoteMapperWithClock pins "today" for records that carry neither a
// date nor a creation timestamp.
func NewNoteMapperWithClock(now func() time.Time) *NoteMapper {
	return &NoteMapper{now: now}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:    n.Id.String(),
		Title: n.Title,
		Body:  n.Body,
		Tag:   n.Tag,
		Date:  m.dateOf(n),
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []entity.Note {
	entities := make([]entity.Note, 0, len(notes))
	for _, n := range notes {
		if n == nil {
			continue
		}
		entities = append(entities, *m.ToEntity(n))
	}
	return entities
}

// ToModel builds a new record for userId. Id and timestamps are left for the
// store to assign.
func (m *NoteMapper) ToModel(d entity.NoteDraft, userId string) (*model.Note, error) {
	date, err := ParseDate(d.Date)
	if err != nil {
		return nil, err
	}

	return &model.Note{
		Title:  d.Title,
		Body:   d.Body,
		Tag:    d.Tag,
		Date:   date,
		UserId: userId,
	}, nil
}

// ToUpdateModel builds the record written by an update of n.
func (m *NoteMapper) ToUpdateModel(n entity.Note, userId string) (*model.Note, error) {
	id, err := ParseId(n.Id)
	if err != nil {
		return nil, err
	}

	rec, err := m.ToModel(n.Draft(), userId)
	if err != nil {
		return nil, err
	}
	rec.Id = id
	return rec, nil
}

// SortKey is the creation timestamp, or the stored calendar day when the
// record has none.
func (m *NoteMapper) SortKey(n *model.Note) time.Time {
	if !n.CreatedAt.IsZero() {
		return n.CreatedAt
	}
	if n.HasDate() {
		return time.Time(n.Date)
	}
	return time.Time{}
}

func (m *NoteMapper) dateOf(n *model.Note) string {
	switch {
	case n.HasDate():
		return time.Time(n.Date).Format(entity.DateLayout)
	case !n.CreatedAt.IsZero():
		return n.CreatedAt.Format(entity.DateLayout)
	default:
		return entity.Today(m.now())
	}
}

func ParseDate(s string) (datatypes.Date, error) {
	if s == "" {
		return datatypes.Date{}, nil
	}
	t, err := time.ParseInLocation(entity.DateLayout, s, time.UTC)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", s, errs.ErrInvalid)
	}
	return datatypes.Date(t), nil
}

// ParseId maps a domain id to a record key. Ids the store could never have
// issued resolve to ErrNotFound.
func ParseId(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("note %q: %w", id, errs.ErrNotFound)
	}
	return parsed, nil
}
