package service

import (
	"context"
	"encoding/json"
	"fmt"

	"notefiber-sync/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const SessionChangedTopic = "session.changed"

type sessionChangedMessage struct {
	User *entity.SessionUser `json:"user"`
}

// SessionBus fans sign-in and sign-out out to every listener. Publish
// returns once every listener has handled the change, so listeners see
// changes in publish order.
type SessionBus struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewSessionBus(wmLogger watermill.LoggerAdapter) *SessionBus {
	if wmLogger == nil {
		wmLogger = watermill.NopLogger{}
	}
	return &SessionBus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{BlockPublishUntilSubscriberAck: true},
			wmLogger,
		),
		topic: SessionChangedTopic,
	}
}

// Publish announces the new current user; nil means signed out.
func (b *SessionBus) Publish(user *entity.SessionUser) error {
	payload, err := json.Marshal(sessionChangedMessage{User: user})
	if err != nil {
		return fmt.Errorf("marshal session change: %w", err)
	}
	return b.pubSub.Publish(b.topic, message.NewMessage(watermill.NewUUID(), payload))
}

// Listen calls first and then fn for every change until ctx is done. It
// returns once the subscription is registered, so no change published
// after Listen returns is missed.
func (b *SessionBus) Listen(ctx context.Context, first func(), fn func(*entity.SessionUser)) error {
	messages, err := b.pubSub.Subscribe(ctx, b.topic)
	if err != nil {
		return err
	}

	go func() {
		if first != nil {
			first()
		}
		for msg := range messages {
			var change sessionChangedMessage
			if err := json.Unmarshal(msg.Payload, &change); err == nil && ctx.Err() == nil {
				fn(change.User)
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *SessionBus) Close() error {
	return b.pubSub.Close()
}
