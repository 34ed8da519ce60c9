package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"notefiber-sync/internal/dto"
	"notefiber-sync/internal/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	uid          string
	email        string
	passwordHash []byte
}

// MemoryProvider is an in-process identity provider. Accounts live for the
// lifetime of the value.
type MemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*account
	revoked  map[string]struct{}
	secret   []byte
	ttl      time.Duration
	cost     int
	now      func() time.Time
}

var _ Provider = (*MemoryProvider)(nil)

type MemoryOption func(*MemoryProvider)

func WithBcryptCost(cost int) MemoryOption {
	return func(p *MemoryProvider) { p.cost = cost }
}

func WithTokenTTL(ttl time.Duration) MemoryOption {
	return func(p *MemoryProvider) { p.ttl = ttl }
}

func WithClock(now func() time.Time) MemoryOption {
	return func(p *MemoryProvider) { p.now = now }
}

func NewMemoryProvider(secret string, opts ...MemoryOption) *MemoryProvider {
	if secret == "" {
		secret = "default_secret"
	}
	p := &MemoryProvider{
		accounts: make(map[string]*account),
		revoked:  make(map[string]struct{}),
		secret:   []byte(secret),
		ttl:      24 * time.Hour,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *MemoryProvider) Register(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := dto.RegisterRequest{Email: strings.TrimSpace(email), Password: password}
	if err := validation.ValidateRequest(req); err != nil {
		return nil, err
	}

	key := strings.ToLower(req.Email)

	p.mu.Lock()
	if _, exists := p.accounts[key]; exists {
		p.mu.Unlock()
		return nil, errors.New("email already registered")
	}
	// Reserve the address while hashing outside the lock.
	p.accounts[key] = nil
	p.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		p.mu.Lock()
		delete(p.accounts, key)
		p.mu.Unlock()
		return nil, err
	}

	acc := &account{uid: uuid.NewString(), email: req.Email, passwordHash: hash}
	p.mu.Lock()
	p.accounts[key] = acc
	p.mu.Unlock()

	return p.issue(acc)
}

func (p *MemoryProvider) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequest(dto.LoginRequest{Email: strings.TrimSpace(email), Password: password}); err != nil {
		return nil, err
	}

	p.mu.Lock()
	acc := p.accounts[strings.ToLower(strings.TrimSpace(email))]
	p.mu.Unlock()

	if acc == nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return p.issue(acc)
}

// Logout revokes the session's access token. Unknown or already invalid
// tokens are accepted.
func (p *MemoryProvider) Logout(ctx context.Context, session *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	claims, err := p.parse(session.AccessToken)
	if err != nil {
		return nil
	}

	p.mu.Lock()
	p.revoked[claims.ID] = struct{}{}
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) Session(ctx context.Context, accessToken string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	claims, err := p.parse(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidSession)
	}

	p.mu.Lock()
	_, revoked := p.revoked[claims.ID]
	p.mu.Unlock()
	if revoked {
		return nil, ErrInvalidSession
	}

	return &Session{
		User:        claims.sessionUser(),
		AccessToken: accessToken,
		ExpiresAt:   expiryOf(claims),
	}, nil
}

func (p *MemoryProvider) issue(acc *account) (*Session, error) {
	now := p.now()
	expiresAt := now.Add(p.ttl)

	claims := &Claims{
		UserID: acc.uid,
		Email:  acc.email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   acc.uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		User:        claims.sessionUser(),
		AccessToken: signed,
		ExpiresAt:   expiresAt,
	}, nil
}

func (p *MemoryProvider) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
