package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// SessionKeeper persists the signed-in session between process runs.
type SessionKeeper interface {
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// FileKeeper stores the session as YAML in a file readable only by the owner.
type FileKeeper struct {
	path string
}

var _ SessionKeeper = (*FileKeeper)(nil)

func NewFileKeeper(path string) *FileKeeper {
	return &FileKeeper{path: path}
}

func (k *FileKeeper) Load(ctx context.Context) (*Session, error) {
	data, err := os.ReadFile(k.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (k *FileKeeper) Save(ctx context.Context, s *Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(k.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return writeFileAtomic(k.path, data, 0o600)
}

func (k *FileKeeper) Clear(ctx context.Context) error {
	if err := os.Remove(k.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}

// RedisKeeper stores the session under a per-device key, expiring with the
// access token.
type RedisKeeper struct {
	rdb *redis.Client
	key string
	now func() time.Time
}

var _ SessionKeeper = (*RedisKeeper)(nil)

func NewRedisKeeper(rdb *redis.Client, deviceID string) *RedisKeeper {
	return &RedisKeeper{rdb: rdb, key: "notesync:session:" + deviceID, now: time.Now}
}

func (k *RedisKeeper) Load(ctx context.Context) (*Session, error) {
	data, err := k.rdb.Get(ctx, k.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (k *RedisKeeper) Save(ctx context.Context, s *Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	var ttl time.Duration
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(k.now())
		if ttl <= 0 {
			return k.Clear(ctx)
		}
	}
	if err := k.rdb.Set(ctx, k.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (k *RedisKeeper) Clear(ctx context.Context) error {
	if err := k.rdb.Del(ctx, k.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
