package store

import (
	"testing"

	"notefiber-sync/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(id, title, body string) entity.Note {
	return entity.Note{Id: id, Title: title, Body: body, Tag: "Personal", Date: "2024-06-09"}
}

func apply(state RootState, actions ...Action) RootState {
	for _, a := range actions {
		state = reduce(state, a)
	}
	return state
}

func TestSessionSliceTransitions(t *testing.T) {
	u1 := &entity.SessionUser{Uid: "u1", Email: "a@b.co"}

	tests := []struct {
		name    string
		actions []Action
		user    *entity.SessionUser
		err     string
		status  SessionStatus
		init    bool
	}{
		{
			name:    "login pending",
			actions: []Action{AuthAction{Command: CmdLogin, Phase: Pending}},
			status:  StatusPending,
		},
		{
			name: "login fulfilled",
			actions: []Action{
				AuthAction{Command: CmdLogin, Phase: Pending},
				AuthAction{Command: CmdLogin, Phase: Fulfilled, User: u1},
			},
			user:   u1,
			status: StatusAuthenticated,
		},
		{
			name: "login rejected keeps user absent",
			actions: []Action{
				AuthAction{Command: CmdLogin, Phase: Pending},
				AuthAction{Command: CmdLogin, Phase: Rejected, Message: "invalid credentials"},
			},
			err:    "invalid credentials",
			status: StatusError,
		},
		{
			name: "pending clears previous error",
			actions: []Action{
				AuthAction{Command: CmdLogin, Phase: Pending},
				AuthAction{Command: CmdLogin, Phase: Rejected, Message: "invalid credentials"},
				AuthAction{Command: CmdRegister, Phase: Pending},
			},
			status: StatusPending,
		},
		{
			name: "logout rejected keeps user",
			actions: []Action{
				AuthAction{Command: CmdLogin, Phase: Pending},
				AuthAction{Command: CmdLogin, Phase: Fulfilled, User: u1},
				AuthAction{Command: CmdLogout, Phase: Pending},
				AuthAction{Command: CmdLogout, Phase: Rejected, Message: "Failed to logout"},
			},
			user:   u1,
			err:    "Failed to logout",
			status: StatusAuthenticated,
		},
		{
			name: "logout fulfilled clears user",
			actions: []Action{
				AuthAction{Command: CmdLogin, Phase: Pending},
				AuthAction{Command: CmdLogin, Phase: Fulfilled, User: u1},
				AuthAction{Command: CmdLogout, Phase: Pending},
				AuthAction{Command: CmdLogout, Phase: Fulfilled},
			},
			status: StatusAnonymous,
		},
		{
			name: "initialize without session",
			actions: []Action{
				AuthAction{Command: CmdInitializeSession, Phase: Pending},
				AuthAction{Command: CmdInitializeSession, Phase: Fulfilled},
			},
			status: StatusAnonymous,
			init:   true,
		},
		{
			name: "initialize rejected is not an error",
			actions: []Action{
				AuthAction{Command: CmdInitializeSession, Phase: Pending},
				AuthAction{Command: CmdInitializeSession, Phase: Rejected, Message: "context canceled"},
			},
			status: StatusAnonymous,
			init:   true,
		},
		{
			name: "set user and clear error",
			actions: []Action{
				AuthAction{Command: CmdLogin, Phase: Rejected, Message: "boom"},
				SetUser{User: u1},
				ClearAuthError{},
			},
			user:   u1,
			status: StatusAuthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := apply(RootState{}, tt.actions...).Auth
			assert.Equal(t, tt.user, st.User)
			assert.Equal(t, tt.err, st.Error)
			assert.Equal(t, tt.status, st.Status())
			assert.Equal(t, tt.init, st.Initialized)
		})
	}
}

func TestInitializedNeverReverts(t *testing.T) {
	st := apply(RootState{},
		AuthAction{Command: CmdInitializeSession, Phase: Pending},
		AuthAction{Command: CmdInitializeSession, Phase: Fulfilled, User: &entity.SessionUser{Uid: "u1"}},
		AuthAction{Command: CmdLogout, Phase: Pending},
		AuthAction{Command: CmdLogout, Phase: Fulfilled},
		AuthAction{Command: CmdLogin, Phase: Pending},
		AuthAction{Command: CmdLogin, Phase: Rejected, Message: "nope"},
	)
	assert.True(t, st.Auth.Initialized)
}

func TestLoadingCountsCommandsInFlight(t *testing.T) {
	st := apply(RootState{},
		AuthAction{Command: CmdLogin, Phase: Pending},
		AuthAction{Command: CmdRegister, Phase: Pending},
		AuthAction{Command: CmdLogin, Phase: Rejected, Message: "x"},
	)
	assert.True(t, st.Auth.Loading)
	st = reduce(st, AuthAction{Command: CmdRegister, Phase: Fulfilled, User: &entity.SessionUser{Uid: "u1"}})
	assert.False(t, st.Auth.Loading)

	st = apply(st,
		NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: "u1"},
		NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: "u1"},
		NotesAction{Command: CmdFetchNotes, Phase: Fulfilled, Owner: "u1"},
	)
	assert.True(t, st.Notes.Loading)
	st = reduce(st, NotesAction{Command: CmdFetchNotes, Phase: Rejected, Owner: "u1", Message: "x"})
	assert.False(t, st.Notes.Loading)
}

func fetched(owner string, notes ...entity.Note) RootState {
	return apply(RootState{Auth: SessionState{User: &entity.SessionUser{Uid: owner}}},
		NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: owner},
		NotesAction{Command: CmdFetchNotes, Phase: Fulfilled, Owner: owner, Notes: notes},
	)
}

func TestNotesMutations(t *testing.T) {
	a, b, c := note("a", "A", ""), note("b", "B", ""), note("c", "C", "")
	base := fetched("u1", a, b, c)
	require.Equal(t, []entity.Note{a, b, c}, base.Notes.Notes)
	require.False(t, base.Notes.Loading)

	t.Run("add prepends", func(t *testing.T) {
		d := note("d", "D", "")
		st := apply(base,
			NotesAction{Command: CmdAddNote, Phase: Pending, Owner: "u1"},
			NotesAction{Command: CmdAddNote, Phase: Fulfilled, Owner: "u1", Note: d},
		)
		assert.Equal(t, []entity.Note{d, a, b, c}, st.Notes.Notes)
	})

	t.Run("update replaces only the matching entry", func(t *testing.T) {
		b2 := note("b", "B2", "changed")
		update := []Action{
			NotesAction{Command: CmdUpdateNote, Phase: Pending, Owner: "u1"},
			NotesAction{Command: CmdUpdateNote, Phase: Fulfilled, Owner: "u1", Note: b2},
		}
		once := apply(base, update...)
		assert.Equal(t, []entity.Note{a, b2, c}, once.Notes.Notes)

		twice := apply(once, update...)
		assert.Equal(t, once.Notes, twice.Notes)
	})

	t.Run("update of absent note is dropped", func(t *testing.T) {
		st := apply(base,
			NotesAction{Command: CmdUpdateNote, Phase: Pending, Owner: "u1"},
			NotesAction{Command: CmdUpdateNote, Phase: Fulfilled, Owner: "u1", Note: note("zz", "Z", "")},
		)
		assert.Equal(t, []entity.Note{a, b, c}, st.Notes.Notes)
	})

	t.Run("delete removes one entry", func(t *testing.T) {
		st := apply(base,
			NotesAction{Command: CmdDeleteNote, Phase: Pending, Owner: "u1"},
			NotesAction{Command: CmdDeleteNote, Phase: Fulfilled, Owner: "u1", NoteID: "b"},
		)
		assert.Equal(t, []entity.Note{a, c}, st.Notes.Notes)
	})

	t.Run("failures keep notes", func(t *testing.T) {
		for _, cmd := range []string{CmdFetchNotes, CmdAddNote, CmdUpdateNote, CmdDeleteNote} {
			st := apply(base,
				NotesAction{Command: cmd, Phase: Pending, Owner: "u1"},
				NotesAction{Command: cmd, Phase: Rejected, Owner: "u1", Message: "Missing or insufficient permissions."},
			)
			assert.Equal(t, []entity.Note{a, b, c}, st.Notes.Notes, cmd)
			assert.Equal(t, "Missing or insufficient permissions.", st.Notes.Error, cmd)
		}
	})

	t.Run("previous snapshot untouched", func(t *testing.T) {
		before := append([]entity.Note(nil), base.Notes.Notes...)
		apply(base,
			NotesAction{Command: CmdUpdateNote, Phase: Fulfilled, Owner: "u1", Note: note("a", "changed", "")},
			NotesAction{Command: CmdDeleteNote, Phase: Fulfilled, Owner: "u1", NoteID: "c"},
			NotesAction{Command: CmdAddNote, Phase: Fulfilled, Owner: "u1", Note: note("d", "D", "")},
		)
		assert.Equal(t, before, base.Notes.Notes)
	})
}

func TestPendingClearsNotesError(t *testing.T) {
	st := apply(fetched("u1"),
		NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: "u1"},
		NotesAction{Command: CmdFetchNotes, Phase: Rejected, Owner: "u1", Message: "offline"},
	)
	require.Equal(t, "offline", st.Notes.Error)

	assert.Empty(t, reduce(st, NotesAction{Command: CmdAddNote, Phase: Pending, Owner: "u1"}).Notes.Error)
	assert.Empty(t, reduce(st, ClearNotesError{}).Notes.Error)
}

func TestOwnerGuard(t *testing.T) {
	base := fetched("u1", note("a", "Shopping List", ""))

	t.Run("pending for another owner discards held notes", func(t *testing.T) {
		st := reduce(base, NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: "u2"})
		assert.Empty(t, st.Notes.Notes)
		assert.Equal(t, "u2", st.Notes.Owner)
	})

	t.Run("stale resolution is dropped", func(t *testing.T) {
		st := apply(base,
			NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: "u1"},
			NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: "u1"},
			NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: "u2"},
			NotesAction{Command: CmdFetchNotes, Phase: Fulfilled, Owner: "u1", Notes: []entity.Note{note("a", "Shopping List", "")}},
			NotesAction{Command: CmdFetchNotes, Phase: Rejected, Owner: "u1", Message: "late failure"},
		)
		assert.Empty(t, st.Notes.Notes)
		assert.Empty(t, st.Notes.Error)
		assert.True(t, st.Notes.Loading)
	})

	t.Run("delete does not switch owner", func(t *testing.T) {
		st := reduce(base, NotesAction{Command: CmdDeleteNote, Phase: Pending, Owner: "u1"})
		assert.Len(t, st.Notes.Notes, 1)
	})
}

func TestSessionChangeResetsNotes(t *testing.T) {
	base := apply(fetched("u1", note("a", "Shopping List", "")), SetSearchQuery{Query: "shop"})

	loggedOut := apply(base,
		AuthAction{Command: CmdLogout, Phase: Pending},
		AuthAction{Command: CmdLogout, Phase: Fulfilled},
	)
	assert.Empty(t, loggedOut.Notes.Notes)
	assert.Empty(t, loggedOut.Notes.Owner)
	assert.Empty(t, loggedOut.Notes.SearchQuery)

	switched := reduce(base, SetUser{User: &entity.SessionUser{Uid: "u2"}})
	assert.Empty(t, switched.Notes.Notes)
	assert.Equal(t, "u2", switched.Notes.Owner)

	same := reduce(base, SetUser{User: &entity.SessionUser{Uid: "u1", Email: "new@b.co"}})
	assert.Len(t, same.Notes.Notes, 1)
}

func TestSessionChangeKeepsInFlightCount(t *testing.T) {
	st := apply(fetched("u1"),
		NotesAction{Command: CmdFetchNotes, Phase: Pending, Owner: "u1"},
		SetUser{User: nil},
	)
	assert.True(t, st.Notes.Loading)

	st = reduce(st, NotesAction{Command: CmdFetchNotes, Phase: Fulfilled, Owner: "u1", Notes: []entity.Note{note("a", "A", "")}})
	assert.False(t, st.Notes.Loading)
	assert.Empty(t, st.Notes.Notes)
}

func TestFilteredNotes(t *testing.T) {
	notes := []entity.Note{
		note("a", "Shopping List", "milk, eggs"),
		note("b", "Trip", "pack the SHOES"),
		note("c", "Standup", "notes"),
	}
	st := fetched("u1", notes...)

	tests := []struct {
		query string
		ids   []string
	}{
		{query: "", ids: []string{"a", "b", "c"}},
		{query: "shop", ids: []string{"a"}},
		{query: "sho", ids: []string{"a", "b"}},
		{query: "NOTES", ids: []string{"c"}},
		{query: "nothing", ids: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			filtered := SelectFilteredNotes(reduce(st, SetSearchQuery{Query: tt.query}))
			ids := make([]string, 0, len(filtered))
			for _, n := range filtered {
				ids = append(ids, n.Id)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}

	withQuery := reduce(st, SetSearchQuery{Query: "shop"})
	assert.Equal(t, notes, SelectNotes(withQuery))
	assert.Equal(t, "shop", SelectSearchQuery(withQuery))
}

func TestSelectors(t *testing.T) {
	st := fetched("u1", note("a", "A", ""))

	found := SelectNoteByID("a")(st)
	require.NotNil(t, found)
	assert.Equal(t, "A", found.Title)
	assert.Nil(t, SelectNoteByID("missing")(st))

	notes := SelectNotes(st)
	notes[0].Title = "mutated"
	assert.Equal(t, "A", st.Notes.Notes[0].Title)

	user := SelectUser(st)
	user.Uid = "mutated"
	assert.Equal(t, "u1", st.Auth.User.Uid)
}
