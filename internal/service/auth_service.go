package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"notefiber-sync/internal/activity"
	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/errs"
	"notefiber-sync/internal/identity"
	"notefiber-sync/internal/pkg/logger"
)

type IAuthService interface {
	Register(ctx context.Context, email, password string) (*entity.SessionUser, error)
	Login(ctx context.Context, email, password string) (*entity.SessionUser, error)
	Logout(ctx context.Context) error
	// CurrentUser returns the signed-in user or nil. The first call
	// rehydrates the session persisted by an earlier run.
	CurrentUser(ctx context.Context) *entity.SessionUser
	// Subscribe calls fn with the current user and then with every later
	// change until the returned func is called.
	Subscribe(fn func(*entity.SessionUser)) (unsubscribe func())
}

type authService struct {
	provider identity.Provider
	keeper   identity.SessionKeeper
	bus      *SessionBus
	activity activity.Publisher
	logger   logger.ILogger
	now      func() time.Time

	mu       sync.RWMutex
	session  *identity.Session
	restored bool

	restoreMu sync.Mutex
}

func NewAuthService(
	provider identity.Provider,
	keeper identity.SessionKeeper,
	bus *SessionBus,
	publisher activity.Publisher,
	log logger.ILogger,
) IAuthService {
	if publisher == nil {
		publisher = activity.Nop{}
	}
	return &authService{
		provider: provider,
		keeper:   keeper,
		bus:      bus,
		activity: publisher,
		logger:   log,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, email, password string) (*entity.SessionUser, error) {
	session, err := s.provider.Register(ctx, email, password)
	if err != nil {
		s.logger.Warn("AUTH", "Registration failed", map[string]interface{}{"email": email, "error": err.Error()})
		return nil, errs.NewAuthError("register", err)
	}

	s.signIn(ctx, session)
	s.activity.UserRegistered(ctx, session.User)
	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": session.User.Uid})
	return session.User.Clone(), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*entity.SessionUser, error) {
	session, err := s.provider.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("AUTH", "Login failed", map[string]interface{}{"email": email, "error": err.Error()})
		return nil, errs.NewAuthError("login", err)
	}

	s.signIn(ctx, session)
	s.activity.UserLoggedIn(ctx, session.User)
	s.logger.Info("AUTH", "User logged in", map[string]interface{}{"user_id": session.User.Uid})
	return session.User.Clone(), nil
}

func (s *authService) Logout(ctx context.Context) error {
	s.restore(ctx)

	s.mu.RLock()
	current := s.session
	s.mu.RUnlock()

	if current != nil {
		if err := s.provider.Logout(ctx, current); err != nil {
			s.logger.Warn("AUTH", "Logout failed", map[string]interface{}{"user_id": current.User.Uid, "error": err.Error()})
			return errs.NewAuthError("logout", err)
		}
	}

	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	if err := s.keeper.Clear(ctx); err != nil {
		s.logger.Warn("AUTH", "Failed to clear persisted session", map[string]interface{}{"error": err.Error()})
	}
	s.announce(nil)

	if current != nil {
		s.activity.UserLoggedOut(ctx, current.User.Uid)
		s.logger.Info("AUTH", "User logged out", map[string]interface{}{"user_id": current.User.Uid})
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context) *entity.SessionUser {
	s.restore(ctx)
	return s.currentUser()
}

func (s *authService) Subscribe(fn func(*entity.SessionUser)) func() {
	ctx, cancel := context.WithCancel(context.Background())

	deliverCurrent := func() {
		user := s.CurrentUser(ctx)
		if ctx.Err() == nil {
			fn(user)
		}
	}

	if err := s.bus.Listen(ctx, deliverCurrent, fn); err != nil {
		s.logger.Error("AUTH", "Failed to subscribe to session changes", map[string]interface{}{"error": err.Error()})
		go deliverCurrent()
	}
	return cancel
}

func (s *authService) signIn(ctx context.Context, session *identity.Session) {
	s.mu.Lock()
	s.session = session
	s.restored = true
	s.mu.Unlock()

	if err := s.keeper.Save(ctx, session); err != nil {
		s.logger.Warn("AUTH", "Failed to persist session", map[string]interface{}{"error": err.Error()})
	}
	s.announce(&session.User)
}

func (s *authService) announce(user *entity.SessionUser) {
	if err := s.bus.Publish(user.Clone()); err != nil {
		s.logger.Error("AUTH", "Failed to publish session change", map[string]interface{}{"error": err.Error()})
	}
}

func (s *authService) currentUser() *entity.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	return s.session.User.Clone()
}

// restore loads the persisted session once. A rejected token is discarded;
// an unreachable provider leaves the stored session in place until it
// expires.
func (s *authService) restore(ctx context.Context) {
	s.restoreMu.Lock()
	defer s.restoreMu.Unlock()

	s.mu.RLock()
	done := s.restored
	s.mu.RUnlock()
	if done {
		return
	}

	stored, err := s.keeper.Load(ctx)
	if err != nil {
		s.logger.Warn("AUTH", "Failed to load persisted session", map[string]interface{}{"error": err.Error()})
		s.markRestored(nil)
		return
	}
	if stored == nil || stored.Expired(s.now()) {
		s.markRestored(nil)
		return
	}

	fresh, err := s.provider.Session(ctx, stored.AccessToken)
	switch {
	case err == nil:
		fresh.RefreshToken = stored.RefreshToken
		s.markRestored(fresh)
	case errors.Is(err, identity.ErrInvalidSession):
		s.logger.Info("AUTH", "Persisted session was rejected", map[string]interface{}{"user_id": stored.User.Uid})
		if err := s.keeper.Clear(ctx); err != nil {
			s.logger.Warn("AUTH", "Failed to clear persisted session", map[string]interface{}{"error": err.Error()})
		}
		s.markRestored(nil)
	case ctx.Err() != nil:
		// Try again on the next call.
	default:
		s.logger.Warn("AUTH", "Identity provider unreachable, using persisted session", map[string]interface{}{"error": err.Error()})
		s.markRestored(stored)
	}
}

func (s *authService) markRestored(session *identity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return
	}
	s.session = session
	s.restored = true
}
