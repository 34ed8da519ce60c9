package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"notefiber-sync/internal/errs"
	"notefiber-sync/internal/model"
	"notefiber-sync/internal/repository/contract"
	"notefiber-sync/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// NoteRepository keeps note records in process memory. Records never expire.
type NoteRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	now   func() time.Time
	last  time.Time
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

func NewNoteRepository() *NoteRepository {
	return NewNoteRepositoryWithClock(time.Now)
}

func NewNoteRepositoryWithClock(now func() time.Time) *NoteRepository {
	return &NoteRepository{
		cache: cache.New(cache.NoExpiration, 0),
		now:   now,
	}
}

// tick returns a timestamp strictly after the previous one so creation order
// is always recoverable from CreatedAt.
func (r *NoteRepository) tick() time.Time {
	t := r.now().UTC()
	if !t.After(r.last) {
		t = r.last.Add(time.Microsecond)
	}
	r.last = t
	return t
}

func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.tick()
	note.Id = uuid.New()
	note.CreatedAt = now
	note.UpdatedAt = now

	stored := *note
	r.cache.Set(note.Id.String(), &stored, cache.NoExpiration)
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, note *model.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(note.Id.String())
	if !found {
		return fmt.Errorf("note %s: %w", note.Id, errs.ErrNotFound)
	}
	existing := x.(*model.Note)
	if existing.UserId != note.UserId {
		return fmt.Errorf("note %s belongs to another user: %w", note.Id, errs.ErrPermissionDenied)
	}

	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = r.tick()

	stored := *note
	r.cache.Set(note.Id.String(), &stored, cache.NoExpiration)
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(id.String()); !found {
		return fmt.Errorf("note %s: %w", id, errs.ErrNotFound)
	}
	r.cache.Delete(id.String())
	return nil
}

func (r *NoteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*model.Note, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

// FindAll returns copies in no particular order, like an unordered
// collection query.
func (r *NoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Note
	for _, item := range r.cache.Items() {
		n := item.Object.(*model.Note)
		if !specification.SatisfiesAll(n, specs...) {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

// Seed stores records as given, keeping their ids and timestamps. A zero id
// is replaced with a fresh one.
func (r *NoteRepository) Seed(notes ...model.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range notes {
		if n.Id == uuid.Nil {
			n.Id = uuid.New()
		}
		if n.CreatedAt.After(r.last) {
			r.last = n.CreatedAt
		}
		stored := n
		r.cache.Set(n.Id.String(), &stored, cache.NoExpiration)
	}
}

func (r *NoteRepository) Count() int {
	return r.cache.ItemCount()
}
