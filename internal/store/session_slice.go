package store

import "notefiber-sync/internal/entity"

type SessionStatus string

const (
	StatusAnonymous     SessionStatus = "anonymous"
	StatusPending       SessionStatus = "pending"
	StatusAuthenticated SessionStatus = "authenticated"
	StatusError         SessionStatus = "error"
)

// SessionState is the auth slice. Loading is true while any identity
// command is in flight. Initialized latches on the first session
// resolution and never reverts.
type SessionState struct {
	User        *entity.SessionUser
	Loading     bool
	Error       string
	Initialized bool

	inFlight int
}

// Status summarizes the slice. An in-flight command reports pending, and a
// signed-in user reports authenticated even when the last command failed, as
// after a rejected logout. Error is reported only with no user held; the
// message stays readable through Error either way.
func (s SessionState) Status() SessionStatus {
	switch {
	case s.Loading:
		return StatusPending
	case s.User != nil:
		return StatusAuthenticated
	case s.Error != "":
		return StatusError
	}
	return StatusAnonymous
}

func (s SessionState) settle() SessionState {
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.Loading = s.inFlight > 0
	return s
}

func reduceSession(s SessionState, action Action) SessionState {
	switch a := action.(type) {
	case AuthAction:
		switch a.Phase {
		case Pending:
			s.inFlight++
			s.Loading = true
			if a.Command != CmdInitializeSession {
				s.Error = ""
			}

		case Fulfilled:
			s = s.settle()
			switch a.Command {
			case CmdLogout:
				s.User = nil
			case CmdInitializeSession:
				s.User = a.User.Clone()
				s.Initialized = true
			default:
				s.User = a.User.Clone()
			}

		case Rejected:
			s = s.settle()
			if a.Command == CmdInitializeSession {
				// No session is a valid resolution, not an error.
				s.Initialized = true
				return s
			}
			s.Error = a.Message
		}

	case SetUser:
		s.User = a.User.Clone()

	case ClearAuthError:
		s.Error = ""
	}
	return s
}
