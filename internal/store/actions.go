package store

import "notefiber-sync/internal/entity"

// Action is a state transition request. Reducers switch on the concrete type.
type Action interface {
	Type() string
}

// Phase is the lifecycle step of an asynchronous command.
type Phase string

const (
	Pending   Phase = "pending"
	Fulfilled Phase = "fulfilled"
	Rejected  Phase = "rejected"
)

// Command names, also used as span names.
const (
	CmdInitializeSession = "auth/initialize"
	CmdLogin             = "auth/login"
	CmdRegister          = "auth/register"
	CmdLogout            = "auth/logout"
	CmdFetchNotes        = "notes/fetchNotes"
	CmdAddNote           = "notes/addNote"
	CmdUpdateNote        = "notes/updateNote"
	CmdDeleteNote        = "notes/deleteNote"
)

// AuthAction reports a phase of an identity command.
type AuthAction struct {
	Command string
	Phase   Phase
	User    *entity.SessionUser
	Message string
}

func (a AuthAction) Type() string { return a.Command + "/" + string(a.Phase) }

// NotesAction reports a phase of a note command. Owner is the user the
// command was issued for.
type NotesAction struct {
	Command string
	Phase   Phase
	Owner   string
	Notes   []entity.Note
	Note    entity.Note
	NoteID  string
	Message string
}

func (a NotesAction) Type() string { return a.Command + "/" + string(a.Phase) }

type SetUser struct {
	User *entity.SessionUser
}

func (SetUser) Type() string { return "auth/setUser" }

type ClearAuthError struct{}

func (ClearAuthError) Type() string { return "auth/clearError" }

type SetSearchQuery struct {
	Query string
}

func (SetSearchQuery) Type() string { return "notes/setSearchQuery" }

type ClearNotesError struct{}

func (ClearNotesError) Type() string { return "notes/clearError" }
