package specification

import (
	"testing"

	"notefiber-sync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSatisfiesAll(t *testing.T) {
	id := uuid.New()
	note := &model.Note{Id: id, UserId: "u1"}

	assert.True(t, SatisfiesAll(note))
	assert.True(t, SatisfiesAll(note, ByID{ID: id}, NoteOwnedByUser{UserID: "u1"}))
	assert.False(t, SatisfiesAll(note, ByID{ID: id}, NoteOwnedByUser{UserID: "u2"}))
	assert.False(t, SatisfiesAll(note, ByID{ID: uuid.New()}))
}
