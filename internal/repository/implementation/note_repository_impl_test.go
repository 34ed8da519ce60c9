package implementation

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"notefiber-sync/internal/errs"
	"notefiber-sync/internal/model"
	"notefiber-sync/internal/repository/specification"
	"notefiber-sync/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newIntegrationRepo(t *testing.T) *NoteRepositoryImpl {
	t.Helper()
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return &NoteRepositoryImpl{db: db}
}

func TestNoteRepositoryLifecycle(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	owner := "it-" + uuid.NewString()

	note := &model.Note{
		Title:  "Integration",
		Body:   "body",
		Tag:    "Work",
		Date:   datatypes.Date(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)),
		UserId: owner,
	}
	require.NoError(t, repo.Create(ctx, note))
	require.NotEqual(t, uuid.Nil, note.Id)
	t.Cleanup(func() { _ = repo.Delete(context.Background(), note.Id) })

	all, err := repo.FindAll(ctx, specification.NoteOwnedByUser{UserID: owner})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Integration", all[0].Title)

	stolen := &model.Note{Id: note.Id, Title: "stolen", Date: note.Date, UserId: "it-" + uuid.NewString()}
	assert.ErrorIs(t, repo.Update(ctx, stolen), errs.ErrPermissionDenied)

	note.Title = "Renamed"
	require.NoError(t, repo.Update(ctx, note))
	assert.False(t, note.CreatedAt.IsZero())

	got, err := repo.FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, owner, got.UserId)

	require.NoError(t, repo.Delete(ctx, note.Id))
	assert.ErrorIs(t, repo.Delete(ctx, note.Id), errs.ErrNotFound)

	missing, err := repo.FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	assert.Nil(t, missing)

	ghost := &model.Note{Id: uuid.New(), Title: "ghost", UserId: owner}
	assert.ErrorIs(t, repo.Update(ctx, ghost), errs.ErrNotFound)
}
