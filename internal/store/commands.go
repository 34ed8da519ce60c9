package store

import (
	"context"
	"errors"
	"fmt"

	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/errs"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNoAuthClient = errors.New("identity client not configured")
	ErrNoNoteClient = errors.New("document client not configured")
)

// Command is an asynchronous operation that reports its progress through
// pending, fulfilled and rejected actions.
type Command struct {
	name string
	exec func(ctx context.Context, s *Store) (any, error)
}

func (c Command) Name() string { return c.name }

// Outcome is the settled result of a command. Err is also recorded as a
// message in the slice the command targets.
type Outcome struct {
	Command string
	Value   any
	Err     error
}

// Run executes cmd on the calling goroutine and blocks until it settles.
func (s *Store) Run(ctx context.Context, cmd Command) (out Outcome) {
	ctx, span := s.tracer.Start(ctx, cmd.name)
	defer span.End()

	out.Command = cmd.name
	defer func() {
		if r := recover(); r != nil {
			out.Value = nil
			out.Err = fmt.Errorf("%s: panic: %v", cmd.name, r)
			s.logger.Error("STORE", "Command panicked", map[string]interface{}{
				"command": cmd.name,
				"panic":   r,
			})
		}
		if out.Err != nil {
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())
		}
	}()

	out.Value, out.Err = cmd.exec(ctx, s)
	return out
}

// Go runs cmd on a new goroutine. The channel yields exactly one Outcome.
func (s *Store) Go(ctx context.Context, cmd Command) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- s.Run(ctx, cmd)
	}()
	return ch
}

// settle calls the client, recovering a panic into an error so the pending
// action is always matched by a fulfilled or rejected one.
func settle[T any](ctx context.Context, call func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return call(ctx)
}

func (s *Store) rejected(name string, err error) {
	s.logger.Warn("STORE", "Command rejected", map[string]interface{}{
		"command": name,
		"error":   err.Error(),
	})
}

// InitializeSession resolves the first session the identity client reports.
// It never fails outward; a cancelled context still marks the session as
// initialized.
func InitializeSession() Command {
	return Command{name: CmdInitializeSession, exec: func(ctx context.Context, s *Store) (any, error) {
		s.Dispatch(AuthAction{Command: CmdInitializeSession, Phase: Pending})
		user, err := settle(ctx, func(ctx context.Context) (*entity.SessionUser, error) {
			if s.auth == nil {
				return nil, ErrNoAuthClient
			}
			return firstSession(ctx, s.auth.Subscribe)
		})
		if err != nil {
			s.rejected(CmdInitializeSession, err)
			s.Dispatch(AuthAction{Command: CmdInitializeSession, Phase: Rejected, Message: err.Error()})
			return (*entity.SessionUser)(nil), nil
		}
		s.Dispatch(AuthAction{Command: CmdInitializeSession, Phase: Fulfilled, User: user})
		return user, nil
	}}
}

func firstSession(ctx context.Context, subscribe func(func(*entity.SessionUser)) func()) (*entity.SessionUser, error) {
	first := make(chan *entity.SessionUser, 1)
	unsubscribe := subscribe(func(u *entity.SessionUser) {
		select {
		case first <- u.Clone():
		default:
		}
	})
	defer unsubscribe()

	select {
	case u := <-first:
		return u, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func Login(email, password string) Command {
	return identityCommand(CmdLogin, "Failed to login", func(ctx context.Context, s *Store) (*entity.SessionUser, error) {
		return s.auth.Login(ctx, email, password)
	})
}

func Register(email, password string) Command {
	return identityCommand(CmdRegister, "Failed to register", func(ctx context.Context, s *Store) (*entity.SessionUser, error) {
		return s.auth.Register(ctx, email, password)
	})
}

func Logout() Command {
	return identityCommand(CmdLogout, "Failed to logout", func(ctx context.Context, s *Store) (*entity.SessionUser, error) {
		return nil, s.auth.Logout(ctx)
	})
}

func identityCommand(name, fallback string, call func(context.Context, *Store) (*entity.SessionUser, error)) Command {
	return Command{name: name, exec: func(ctx context.Context, s *Store) (any, error) {
		s.Dispatch(AuthAction{Command: name, Phase: Pending})
		user, err := settle(ctx, func(ctx context.Context) (*entity.SessionUser, error) {
			if s.auth == nil {
				return nil, ErrNoAuthClient
			}
			return call(ctx, s)
		})
		if err != nil {
			s.rejected(name, err)
			s.Dispatch(AuthAction{Command: name, Phase: Rejected, Message: errs.Message(err, fallback)})
			return nil, err
		}
		s.Dispatch(AuthAction{Command: name, Phase: Fulfilled, User: user})
		if name == CmdLogout {
			return nil, nil
		}
		return user, nil
	}}
}

func FetchNotes(userId string) Command {
	return notesCommand(CmdFetchNotes, "Failed to fetch notes", userId,
		func(ctx context.Context, s *Store) (NotesAction, any, error) {
			notes, err := s.notes.ListByOwner(ctx, userId)
			return NotesAction{Notes: notes}, notes, err
		})
}

// AddNote creates draft for userId. A draft without a date is stamped with
// today's date before it is sent.
func AddNote(draft entity.NoteDraft, userId string) Command {
	return notesCommand(CmdAddNote, "Failed to add note", userId,
		func(ctx context.Context, s *Store) (NotesAction, any, error) {
			d := draft
			if d.Date == "" {
				d.Date = entity.Today(s.now())
			}
			id, err := s.notes.Create(ctx, d, userId)
			if err != nil {
				return NotesAction{}, nil, err
			}
			note := d.WithId(id)
			return NotesAction{Note: note}, note, nil
		})
}

func UpdateNote(note entity.Note, userId string) Command {
	return notesCommand(CmdUpdateNote, "Failed to update note", userId,
		func(ctx context.Context, s *Store) (NotesAction, any, error) {
			if err := s.notes.Update(ctx, note, userId); err != nil {
				return NotesAction{}, nil, err
			}
			return NotesAction{Note: note}, note, nil
		})
}

// DeleteNote removes id. The result applies to the owner whose notes were
// held when the command started.
func DeleteNote(id string) Command {
	return notesCommand(CmdDeleteNote, "Failed to delete note", "",
		func(ctx context.Context, s *Store) (NotesAction, any, error) {
			if err := s.notes.Delete(ctx, id); err != nil {
				return NotesAction{}, nil, err
			}
			return NotesAction{NoteID: id}, id, nil
		})
}

type notesResult struct {
	action NotesAction
	value  any
}

func notesCommand(name, fallback, owner string, call func(context.Context, *Store) (NotesAction, any, error)) Command {
	return Command{name: name, exec: func(ctx context.Context, s *Store) (any, error) {
		owner := owner
		if name == CmdDeleteNote {
			owner = s.State().Notes.Owner
		}
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("notes.owner", owner))

		s.Dispatch(NotesAction{Command: name, Phase: Pending, Owner: owner})
		res, err := settle(ctx, func(ctx context.Context) (notesResult, error) {
			if s.notes == nil {
				return notesResult{}, ErrNoNoteClient
			}
			action, value, err := call(ctx, s)
			return notesResult{action: action, value: value}, err
		})
		if err != nil {
			s.rejected(name, err)
			s.Dispatch(NotesAction{Command: name, Phase: Rejected, Owner: owner, Message: errs.Message(err, fallback)})
			return nil, err
		}

		res.action.Command = name
		res.action.Phase = Fulfilled
		res.action.Owner = owner
		s.Dispatch(res.action)
		return res.value, nil
	}}
}
