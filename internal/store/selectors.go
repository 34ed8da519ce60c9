package store

import "notefiber-sync/internal/entity"

// Select reads one value from the current snapshot.
func Select[T any](s *Store, selector func(RootState) T) T {
	return selector(s.State())
}

func SelectUser(st RootState) *entity.SessionUser { return st.Auth.User.Clone() }

func SelectAuthLoading(st RootState) bool { return st.Auth.Loading }

func SelectAuthError(st RootState) string { return st.Auth.Error }

func SelectInitialized(st RootState) bool { return st.Auth.Initialized }

func SelectSessionStatus(st RootState) SessionStatus { return st.Auth.Status() }

func SelectNotes(st RootState) []entity.Note { return cloneNotes(st.Notes.Notes) }

// SelectFilteredNotes returns the held notes matching the search query, in
// held order.
func SelectFilteredNotes(st RootState) []entity.Note {
	out := make([]entity.Note, 0, len(st.Notes.Notes))
	for _, n := range st.Notes.Notes {
		if n.Matches(st.Notes.SearchQuery) {
			out = append(out, n)
		}
	}
	return out
}

func SelectSearchQuery(st RootState) string { return st.Notes.SearchQuery }

func SelectNotesLoading(st RootState) bool { return st.Notes.Loading }

func SelectNotesError(st RootState) string { return st.Notes.Error }

// SelectNoteByID returns a selector for the held note with id, or nil.
func SelectNoteByID(id string) func(RootState) *entity.Note {
	return func(st RootState) *entity.Note {
		for _, n := range st.Notes.Notes {
			if n.Id == id {
				found := n
				return &found
			}
		}
		return nil
	}
}
