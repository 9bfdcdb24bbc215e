package events

import (
	"context"
	"encoding/json"
	"fleet-dashboard/internal/domain"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultChannel = "fleet-dashboard:events"

// RedisPublisher forwards events to a pub/sub channel so every backend
// instance can relay them to its own websocket clients.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt domain.ChangeEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("publish event: marshal: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event to %s: %w", p.channel, err)
	}
	return nil
}

// Relay subscribes to channel and republishes every message into the
// local broker until ctx is cancelled. ready is closed once the
// subscription is confirmed.
func Relay(ctx context.Context, rdb *redis.Client, channel string, broker *Broker, log logrus.FieldLogger, ready chan<- struct{}) error {
	if channel == "" {
		channel = DefaultChannel
	}

	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}
	if ready != nil {
		close(ready)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var evt domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.WithError(err).Warn("drop malformed change event")
				continue
			}
			_ = broker.Publish(ctx, evt)
		}
	}
}
