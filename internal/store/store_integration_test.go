package store

import (
	"context"
	"path/filepath"
	"testing"

	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/identity"
	"notefiber-sync/internal/mapper"
	"notefiber-sync/internal/pkg/logger"
	"notefiber-sync/internal/repository/memory"
	"notefiber-sync/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServiceStore(t *testing.T, provider identity.Provider, keeperPath string, repo *memory.NoteRepository) *Store {
	t.Helper()
	log := logger.NewNopLogger()
	bus := service.NewSessionBus(nil)
	t.Cleanup(func() { _ = bus.Close() })

	return New(Deps{
		Auth:   service.NewAuthService(provider, identity.NewFileKeeper(keeperPath), bus, nil, log),
		Notes:  service.NewNoteService(repo, mapper.NewNoteMapper(), nil, log),
		Logger: log,
	})
}

func TestSessionAndNotesRoundTrip(t *testing.T) {
	provider := identity.NewMemoryProvider("test-secret", identity.WithBcryptCost(bcrypt.MinCost))
	keeperPath := filepath.Join(t.TempDir(), "session.yaml")
	repo := memory.NewNoteRepository()
	ctx := context.Background()

	st := newServiceStore(t, provider, keeperPath, repo)
	require.NoError(t, st.Run(ctx, InitializeSession()).Err)
	require.True(t, SelectInitialized(st.State()))
	require.Nil(t, SelectUser(st.State()))

	out := st.Run(ctx, Register("a@b.co", "secret1"))
	require.NoError(t, out.Err)
	user := SelectUser(st.State())
	require.NotNil(t, user)
	assert.Equal(t, "a@b.co", user.Email)

	draft := entity.NoteDraft{Title: "X", Body: "Y", Tag: "Personal", Date: "2024-06-09"}
	added := st.Run(ctx, AddNote(draft, user.Uid))
	require.NoError(t, added.Err)

	require.NoError(t, st.Run(ctx, FetchNotes(user.Uid)).Err)
	held := SelectNotes(st.State())
	require.Len(t, held, 1)
	assert.Equal(t, added.Value, held[0])

	restarted := newServiceStore(t, provider, keeperPath, repo)
	require.NoError(t, restarted.Run(ctx, InitializeSession()).Err)
	assert.Equal(t, user.Uid, SelectUser(restarted.State()).Uid)

	require.NoError(t, st.Run(ctx, Logout()).Err)
	assert.Nil(t, SelectUser(st.State()))
	assert.Empty(t, SelectNotes(st.State()))
	assert.Equal(t, 1, repo.Count())
}

func TestWrongPasswordLeavesSessionAbsent(t *testing.T) {
	provider := identity.NewMemoryProvider("test-secret", identity.WithBcryptCost(bcrypt.MinCost))
	keeperPath := filepath.Join(t.TempDir(), "session.yaml")
	ctx := context.Background()

	st := newServiceStore(t, provider, keeperPath, memory.NewNoteRepository())
	require.NoError(t, st.Run(ctx, Register("a@b.co", "secret1")).Err)
	require.NoError(t, st.Run(ctx, Logout()).Err)

	out := st.Run(ctx, Login("a@b.co", "wrong-one"))
	require.Error(t, out.Err)
	s := st.State()
	assert.Nil(t, SelectUser(s))
	assert.Equal(t, "invalid credentials", SelectAuthError(s))

	require.NoError(t, st.Run(ctx, Login("a@b.co", "secret1")).Err)
	s = st.State()
	assert.NotNil(t, SelectUser(s))
	assert.Empty(t, SelectAuthError(s))
}
