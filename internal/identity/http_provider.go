package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"notefiber-sync/internal/dto"
	"notefiber-sync/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// HTTPProvider talks to the REST auth API. Every response is wrapped in
// dto.BaseResponse.
type HTTPProvider struct {
	BaseURL string
	Client  *http.Client
}

var _ Provider = (*HTTPProvider)(nil)

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Register creates the account and then signs in with it.
func (h *HTTPProvider) Register(ctx context.Context, email, password string) (*Session, error) {
	req := dto.RegisterRequest{Email: email, Password: password}
	var res dto.BaseResponse[dto.RegisterResponse]
	if _, err := h.do(ctx, http.MethodPost, "/api/auth/register", "", req, &res); err != nil {
		return nil, err
	}
	return h.Login(ctx, email, password)
}

func (h *HTTPProvider) Login(ctx context.Context, email, password string) (*Session, error) {
	req := dto.LoginRequest{Email: email, Password: password, RememberMe: true}
	var res dto.BaseResponse[dto.LoginResponse]
	if _, err := h.do(ctx, http.MethodPost, "/api/auth/login", "", req, &res); err != nil {
		return nil, err
	}

	login := res.Data
	if login.AccessToken == "" {
		return nil, errors.New("login response carried no access token")
	}

	user := entity.SessionUser{
		Uid:         login.User.Id,
		Email:       login.User.Email,
		DisplayName: login.User.FullName,
	}
	var expiresAt time.Time
	if claims, err := unverifiedClaims(login.AccessToken); err == nil {
		expiresAt = expiryOf(claims)
		if user.Uid == "" {
			user = claims.sessionUser()
		}
	}

	return &Session{
		User:         user,
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (h *HTTPProvider) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}
	req := dto.LogoutRequest{RefreshToken: session.RefreshToken}
	var res dto.BaseResponse[any]
	_, err := h.do(ctx, http.MethodPost, "/api/auth/logout", session.AccessToken, req, &res)
	if errors.Is(err, ErrInvalidSession) {
		return nil
	}
	return err
}

func (h *HTTPProvider) Session(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ErrInvalidSession
	}
	var res dto.BaseResponse[dto.UserProfileResponse]
	if _, err := h.do(ctx, http.MethodGet, "/api/user/profile", accessToken, nil, &res); err != nil {
		return nil, err
	}

	s := &Session{
		User: entity.SessionUser{
			Uid:         res.Data.Id,
			Email:       res.Data.Email,
			DisplayName: res.Data.FullName,
		},
		AccessToken: accessToken,
	}
	if claims, err := unverifiedClaims(accessToken); err == nil {
		s.ExpiresAt = expiryOf(claims)
	}
	return s, nil
}

func (h *HTTPProvider) do(ctx context.Context, method, path, token string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		return resp.StatusCode, ErrInvalidSession
	}

	var envelope dto.BaseResponse[json.RawMessage]
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode >= 400 || (decodeErr == nil && !envelope.Success) {
		if decodeErr == nil && envelope.Message != "" {
			return resp.StatusCode, errors.New(envelope.Message)
		}
		return resp.StatusCode, fmt.Errorf("identity provider error: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return resp.StatusCode, fmt.Errorf("unmarshal response: %w", decodeErr)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("unmarshal response: %w", err)
	}
	return resp.StatusCode, nil
}

// unverifiedClaims reads the token payload. The provider validates the
// signature; the client only needs the expiry and user id.
func unverifiedClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
