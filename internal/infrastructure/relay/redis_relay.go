package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"

	"github.com/go-redis/redis/v8"
)

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisRelay publishes job events on a Redis channel for observers outside
// this process.
type RedisRelay struct {
	client  publisher
	channel string
}

func NewRedisRelay(client *redis.Client, channel string) *RedisRelay {
	return &RedisRelay{client: client, channel: channel}
}

var _ repositories.EventPublisher = (*RedisRelay)(nil)

func (r *RedisRelay) PublishJobEvent(ctx context.Context, event entities.JobEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}
