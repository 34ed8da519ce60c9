package store

import (
	"sync"
	"time"

	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/pkg/logger"
	"notefiber-sync/internal/service"
	"notefiber-sync/internal/tracer"

	"go.opentelemetry.io/otel/trace"
)

// RootState is one immutable snapshot of both slices. Callers must treat
// the Notes slice as read-only; selectors hand out copies.
type RootState struct {
	Auth  SessionState
	Notes NotesState
}

type Listener func(RootState)

type Deps struct {
	Auth   service.IAuthService
	Notes  service.INoteService
	Logger logger.ILogger
	Now    func() time.Time
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// delivery is one snapshot waiting to reach the listeners registered when it
// was dispatched.
type delivery struct {
	state     RootState
	action    Action
	listeners []Listener
}

// Store holds the application state. Transitions are applied under mu.
// Snapshots are queued in dispatch order and delivered by whichever
// dispatching goroutine finds the queue idle, with no lock held, so
// listeners may read the store, subscribe, unsubscribe or dispatch.
type Store struct {
	mu        sync.Mutex
	state     RootState
	listeners []listenerEntry
	nextID    uint64

	queue    []delivery
	draining bool

	auth   service.IAuthService
	notes  service.INoteService
	logger logger.ILogger
	now    func() time.Time
	tracer trace.Tracer
}

func New(deps Deps) *Store {
	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		auth:   deps.Auth,
		notes:  deps.Notes,
		logger: log,
		now:    now,
		tracer: tracer.Tracer("store"),
	}
}

func (s *Store) State() RootState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action to both slices and returns the resulting snapshot.
// When no other delivery is in progress the snapshot reaches every listener
// before Dispatch returns. Otherwise it is queued behind the snapshots still
// being delivered, and the goroutine delivering them hands it on.
func (s *Store) Dispatch(action Action) RootState {
	s.mu.Lock()
	next := reduce(s.state, action)
	s.state = next
	listeners := make([]Listener, len(s.listeners))
	for i, l := range s.listeners {
		listeners[i] = l.fn
	}
	s.queue = append(s.queue, delivery{state: next, action: action, listeners: listeners})
	if s.draining {
		s.mu.Unlock()
		return next
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
	return next
}

// drain delivers queued snapshots in order until the queue is empty.
func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		d := s.queue[0]
		s.queue[0] = delivery{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		for _, fn := range d.listeners {
			s.notify(fn, d.state, d.action)
		}
	}
}

func (s *Store) notify(fn Listener, state RootState, action Action) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("STORE", "Listener panicked", map[string]interface{}{
				"action": action.Type(),
				"panic":  r,
			})
		}
	}()
	fn(state)
}

func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			kept := make([]listenerEntry, 0, len(s.listeners))
			for _, l := range s.listeners {
				if l.id != id {
					kept = append(kept, l)
				}
			}
			s.listeners = kept
		})
	}
}

func reduce(prev RootState, action Action) RootState {
	next := RootState{
		Auth:  reduceSession(prev.Auth, action),
		Notes: reduceNotes(prev.Notes, action),
	}
	uid := entity.UidOf(next.Auth.User)
	if uid != entity.UidOf(prev.Auth.User) && uid != next.Notes.Owner {
		next.Notes = next.Notes.resetFor(uid)
	}
	return next
}
