package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

const changeChannel = "checkin:changes"

// ChangeBus carries "topic changed" notices between processes over Redis
// pub/sub. Payloads are topic names only; receivers re-query for data.
type ChangeBus interface {
	Publish(ctx context.Context, topic string) error
	Listen(ctx context.Context, onChange func(topic string)) error
}

type changeBus struct {
	client  *redis.Client
	channel string
}

// NewChangeBus creates a new Redis-backed change bus
func NewChangeBus(client *redis.Client) ChangeBus {
	return &changeBus{
		client:  client,
		channel: changeChannel,
	}
}

func (b *changeBus) Publish(ctx context.Context, topic string) error {
	return b.client.Publish(ctx, b.channel, topic).Err()
}

// Listen blocks delivering topics to onChange until ctx is done
func (b *changeBus) Listen(ctx context.Context, onChange func(topic string)) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before reporting readiness
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	log.Printf("[changes] listening on %s", b.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			onChange(msg.Payload)
		}
	}
}
