package activity

import (
	"context"
	"time"

	"notefiber-sync/internal/entity"
	"notefiber-sync/internal/pkg/logger"
	pkgEvents "notefiber-sync/pkg/events"
)

// Publisher reports completed user activity. Publishing is best effort:
// failures are logged and never reach the caller.
type Publisher interface {
	UserRegistered(ctx context.Context, user entity.SessionUser)
	UserLoggedIn(ctx context.Context, user entity.SessionUser)
	UserLoggedOut(ctx context.Context, userId string)
	NoteCreated(ctx context.Context, userId string, note entity.Note)
	NoteUpdated(ctx context.Context, userId string, note entity.Note)
	NoteDeleted(ctx context.Context, noteId string)
}

// EventSink is the bus the events go to. *nats.Publisher satisfies it.
type EventSink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

const publishTimeout = 2 * time.Second

// BusPublisher implements Publisher on top of an EventSink. A nil sink
// turns every call into a no-op.
type BusPublisher struct {
	sink   EventSink
	logger logger.ILogger
	now    func() time.Time
}

func NewBusPublisher(sink EventSink, logger logger.ILogger) *BusPublisher {
	return &BusPublisher{sink: sink, logger: logger, now: time.Now}
}

func (p *BusPublisher) UserRegistered(ctx context.Context, user entity.SessionUser) {
	p.publish(ctx, pkgEvents.UserRegistered, map[string]interface{}{
		"user_id": user.Uid,
		"email":   user.Email,
	})
}

func (p *BusPublisher) UserLoggedIn(ctx context.Context, user entity.SessionUser) {
	p.publish(ctx, pkgEvents.UserLoggedIn, map[string]interface{}{
		"user_id": user.Uid,
		"email":   user.Email,
	})
}

func (p *BusPublisher) UserLoggedOut(ctx context.Context, userId string) {
	p.publish(ctx, pkgEvents.UserLoggedOut, map[string]interface{}{
		"user_id": userId,
	})
}

func (p *BusPublisher) NoteCreated(ctx context.Context, userId string, note entity.Note) {
	p.publish(ctx, pkgEvents.NoteCreated, map[string]interface{}{
		"user_id":     userId,
		"note_id":     note.Id,
		"title":       note.Title,
		"entity_type": "note",
		"entity_id":   note.Id,
	})
}

func (p *BusPublisher) NoteUpdated(ctx context.Context, userId string, note entity.Note) {
	p.publish(ctx, pkgEvents.NoteUpdated, map[string]interface{}{
		"user_id":     userId,
		"note_id":     note.Id,
		"title":       note.Title,
		"entity_type": "note",
		"entity_id":   note.Id,
	})
}

func (p *BusPublisher) NoteDeleted(ctx context.Context, noteId string) {
	p.publish(ctx, pkgEvents.NoteDeleted, map[string]interface{}{
		"note_id":     noteId,
		"entity_type": "note",
		"entity_id":   noteId,
	})
}

func (p *BusPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p == nil || p.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	evt := pkgEvents.BaseEvent{Type: eventType, Data: data, OccurredAt: p.now()}
	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Warn("ACTIVITY", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) UserRegistered(context.Context, entity.SessionUser) {}
func (Nop) UserLoggedIn(context.Context, entity.SessionUser) {}
func (Nop) UserLoggedOut(context.Context, string) {}
func (Nop) NoteCreated(context.Context, string, entity.Note) {}
func (Nop) NoteUpdated(context.Context, string, entity.Note) {}
func (Nop) NoteDeleted(context.Context, string) {}
