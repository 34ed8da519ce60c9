package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoteMatches(t *testing.T) {
	note := Note{Id: "a", Title: "Shopping List", Body: "Milk, eggs and BREAD"}

	tests := []struct {
		query string
		want  bool
	}{
		{query: "", want: true},
		{query: "shopping", want: true},
		{query: "LIST", want: true},
		{query: "bread", want: true},
		{query: "eggs and", want: true},
		{query: "butter", want: false},
		{query: "a", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, note.Matches(tt.query))
		})
	}
}

func TestDraftRoundTrip(t *testing.T) {
	draft := NoteDraft{Title: "X", Body: "Y", Tag: "Personal", Date: "2024-06-09"}
	note := draft.WithId("id-1")

	assert.Equal(t, Note{Id: "id-1", Title: "X", Body: "Y", Tag: "Personal", Date: "2024-06-09"}, note)
	assert.Equal(t, draft, note.Draft())
}

func TestTodayAndTags(t *testing.T) {
	assert.Equal(t, "2024-06-09", Today(time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC)))
	assert.True(t, IsKnownTag("Travel"))
	assert.False(t, IsKnownTag("travel"))
}

func TestSessionUserHelpers(t *testing.T) {
	var absent *SessionUser
	assert.Nil(t, absent.Clone())
	assert.Equal(t, "", UidOf(absent))

	u := &SessionUser{Uid: "u1", Email: "a@b.c"}
	c := u.Clone()
	c.Email = "changed"
	assert.Equal(t, "a@b.c", u.Email)
	assert.Equal(t, "u1", UidOf(c))
}
