// Package identity talks to the remote identity provider and keeps the
// signed-in session between process runs.
package identity

import (
	"context"
	"errors"
	"time"

	"notefiber-sync/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession means the stored token is no longer accepted.
var ErrInvalidSession = errors.New("session expired or revoked")

// Provider is the identity provider boundary.
type Provider interface {
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, session *Session) error
	// Session resolves the user behind accessToken. Rejected tokens fail
	// with ErrInvalidSession.
	Session(ctx context.Context, accessToken string) (*Session, error)
}

// Session is a signed-in user together with the tokens that prove it.
type Session struct {
	User         entity.SessionUser `yaml:"user"`
	AccessToken  string             `yaml:"access_token"`
	RefreshToken string             `yaml:"refresh_token,omitempty"`
	ExpiresAt    time.Time          `yaml:"expires_at,omitempty"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Claims carried by access tokens. The field names match what the REST
// provider issues.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) sessionUser() entity.SessionUser {
	uid := c.UserID
	if uid == "" {
		uid = c.Subject
	}
	return entity.SessionUser{Uid: uid, Email: c.Email, DisplayName: c.FullName}
}

func expiryOf(c *Claims) time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
