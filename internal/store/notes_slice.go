package store

import "notefiber-sync/internal/entity"

// NotesState is the notes slice. Notes belong to Owner and are held newest
// first. The backing array is never modified after a snapshot is published.
type NotesState struct {
	Notes       []entity.Note
	SearchQuery string
	Loading     bool
	Error       string
	Owner       string

	inFlight int
}

func (s NotesState) settle() NotesState {
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.Loading = s.inFlight > 0
	return s
}

// resetFor discards everything held for the previous owner. Commands still
// in flight keep counting toward Loading; their results are dropped by the
// owner check.
func (s NotesState) resetFor(owner string) NotesState {
	return NotesState{
		Owner:    owner,
		Loading:  s.Loading,
		inFlight: s.inFlight,
	}
}

func reduceNotes(s NotesState, action Action) NotesState {
	switch a := action.(type) {
	case NotesAction:
		switch a.Phase {
		case Pending:
			if a.Command != CmdDeleteNote && a.Owner != s.Owner {
				s = s.resetFor(a.Owner)
			}
			s.inFlight++
			s.Loading = true
			s.Error = ""

		case Fulfilled:
			s = s.settle()
			if a.Owner != s.Owner {
				return s
			}
			switch a.Command {
			case CmdFetchNotes:
				s.Notes = cloneNotes(a.Notes)
			case CmdAddNote:
				s.Notes = prepend(s.Notes, a.Note)
			case CmdUpdateNote:
				s.Notes = replaceByID(s.Notes, a.Note)
			case CmdDeleteNote:
				s.Notes = removeByID(s.Notes, a.NoteID)
			}

		case Rejected:
			s = s.settle()
			if a.Owner != s.Owner {
				return s
			}
			s.Error = a.Message
		}

	case SetSearchQuery:
		s.SearchQuery = a.Query

	case ClearNotesError:
		s.Error = ""
	}
	return s
}

func cloneNotes(notes []entity.Note) []entity.Note {
	out := make([]entity.Note, len(notes))
	copy(out, notes)
	return out
}

func prepend(notes []entity.Note, n entity.Note) []entity.Note {
	out := make([]entity.Note, 0, len(notes)+1)
	out = append(out, n)
	return append(out, notes...)
}

func replaceByID(notes []entity.Note, n entity.Note) []entity.Note {
	for i := range notes {
		if notes[i].Id == n.Id {
			out := cloneNotes(notes)
			out[i] = n
			return out
		}
	}
	return notes
}

func removeByID(notes []entity.Note, id string) []entity.Note {
	out := make([]entity.Note, 0, len(notes))
	for _, n := range notes {
		if n.Id != id {
			out = append(out, n)
		}
	}
	return out
}
