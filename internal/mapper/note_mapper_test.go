package mapper

import (
	"testing"
	"time"

	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/errs"
	"notefiber-sync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
}

func TestToEntityDropsOwnerAndTimestamps(t *testing.T) {
	m := NewNoteMapperWithClock(fixedClock)
	id := uuid.New()
	rec := &model.Note{
		Id:        id,
		Title:     "Shopping List",
		Body:      "milk",
		Tag:       "Personal",
		Date:      datatypes.Date(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)),
		UserId:    "u1",
		CreatedAt: time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC),
	}

	got := m.ToEntity(rec)

	assert.Equal(t, &entity.Note{Id: id.String(), Title: "Shopping List", Body: "milk", Tag: "Personal", Date: "2024-06-09"}, got)
}

func TestToEntityDateFallbacks(t *testing.T) {
	m := NewNoteMapperWithClock(fixedClock)

	fromCreated := m.ToEntity(&model.Note{Id: uuid.New(), CreatedAt: time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)})
	assert.Equal(t, "2024-03-01", fromCreated.Date)

	neither := m.ToEntity(&model.Note{Id: uuid.New()})
	assert.Equal(t, "2025-01-02", neither.Date)

	assert.Nil(t, m.ToEntity(nil))
}

func TestToModelParsesDate(t *testing.T) {
	m := NewNoteMapper()

	rec, err := m.ToModel(entity.NoteDraft{Title: "X", Body: "Y", Tag: "Work", Date: "2024-06-09"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserId)
	assert.Equal(t, uuid.Nil, rec.Id)
	assert.Equal(t, "2024-06-09", time.Time(rec.Date).Format(entity.DateLayout))

	_, err = m.ToModel(entity.NoteDraft{Title: "X", Date: "09/06/2024"}, "u1")
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestToUpdateModelRejectsForeignIds(t *testing.T) {
	m := NewNoteMapper()

	_, err := m.ToUpdateModel(entity.Note{Id: "not-a-store-id", Title: "X", Date: "2024-06-09"}, "u1")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	id := uuid.New()
	rec, err := m.ToUpdateModel(entity.Note{Id: id.String(), Title: "X", Date: "2024-06-09"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, id, rec.Id)
}

func TestSortKey(t *testing.T) {
	m := NewNoteMapper()
	created := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	day := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, created, m.SortKey(&model.Note{CreatedAt: created, Date: datatypes.Date(day)}))
	assert.Equal(t, day, m.SortKey(&model.Note{Date: datatypes.Date(day)}))
	assert.True(t, m.SortKey(&model.Note{}).IsZero())
}
