// Package events publishes CRM domain events to Redis pub/sub channels.
// Downstream consumers (gateway SSE, notification workers) subscribe to:
//
//	EVENT_ENTITY_CHANGED: any entity create/update/delete
//	EVENT_CALLBACK_DUE:   a pending callback whose date has passed
//
// Publishing is always best-effort: a failed publish is logged by the caller
// and never fails the primary operation.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	ChannelEntityChanged = "EVENT_ENTITY_CHANGED"
	ChannelCallbackDue   = "EVENT_CALLBACK_DUE"
)

// Publisher sends one JSON-encoded event to a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// RedisPublisher publishes events on a Redis client.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a Publisher backed by rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// NopPublisher discards all events. Used when no Redis URL is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
